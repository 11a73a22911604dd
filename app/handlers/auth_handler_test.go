// Package handlers_test verifies HTTP status and error-code mapping
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/app/handlers"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSignupFlow returns a canned result or error for every signup
type stubSignupFlow struct {
	result *dto.AuthResponse
	err    error
}

func (s *stubSignupFlow) Signup(ctx context.Context, req *dto.SignupRequest, metadata *businessflow.ClientMetadata) (*dto.AuthResponse, error) {
	return s.result, s.err
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func postSignup(t *testing.T, app *fiber.App, body string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", "device-alpha")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func newSignupApp(flow businessflow.SignupFlow) *fiber.App {
	handler := handlers.NewAuthHandler(flow, nil, nil, nil)
	app := fiber.New()
	app.Post("/api/auth/signup", handler.Signup)
	return app
}

func TestSignupHandler(t *testing.T) {
	const signupBody = `{
		"email": "asha@example.com",
		"password": "Passw0rd!",
		"confirmPassword": "Passw0rd!",
		"fullName": "Asha Verma"
	}`

	t.Run("CamelCaseBodyIsAccepted", func(t *testing.T) {
		app := newSignupApp(&stubSignupFlow{result: &dto.AuthResponse{Token: "t"}})

		resp, env := postSignup(t, app, signupBody)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.True(t, env.Success)
	})

	t.Run("DuplicateEmailIsBadRequest", func(t *testing.T) {
		app := newSignupApp(&stubSignupFlow{
			err: businessflow.NewBusinessError("EMAIL_EXISTS", "Email already exists", businessflow.ErrEmailAlreadyExists),
		})

		resp, env := postSignup(t, app, signupBody)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.False(t, env.Success)
		assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)
	})

	t.Run("SnakeCaseBodyFailsValidation", func(t *testing.T) {
		app := newSignupApp(&stubSignupFlow{result: &dto.AuthResponse{}})

		resp, env := postSignup(t, app, `{
			"email": "asha@example.com",
			"password": "Passw0rd!",
			"confirm_password": "Passw0rd!",
			"full_name": "Asha Verma"
		}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("MissingDeviceIsBadRequest", func(t *testing.T) {
		app := newSignupApp(&stubSignupFlow{
			err: businessflow.NewBusinessError("MISSING_DEVICE_ID", "X-Device-Id header is required", businessflow.ErrMissingDeviceID),
		})

		resp, env := postSignup(t, app, signupBody)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "MISSING_DEVICE_ID", env.Error.Code)
	})
}

// stubProfileFlow returns a canned error for every update
type stubProfileFlow struct {
	err error
}

func (s *stubProfileFlow) Me(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	return nil, s.err
}

func (s *stubProfileFlow) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest, metadata *businessflow.ClientMetadata) (*dto.UserDTO, error) {
	return nil, s.err
}

func TestUpdateProfileHandlerDuplicateKYCFields(t *testing.T) {
	run := func(t *testing.T, flowErr error, wantCode string) {
		t.Helper()
		handler := handlers.NewAuthHandler(nil, nil, &stubProfileFlow{err: flowErr}, nil)
		app := fiber.New()
		app.Put("/api/auth/profile", func(c fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			return c.Next()
		}, handler.UpdateProfile)

		req := httptest.NewRequest("PUT", "/api/auth/profile", strings.NewReader(`{"aadhaar":"123412341234"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Device-Id", "device-alpha")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, wantCode, env.Error.Code)
	}

	t.Run("AadhaarTaken", func(t *testing.T) {
		run(t, businessflow.NewBusinessError("AADHAAR_EXISTS", "Aadhaar already registered", businessflow.ErrAadhaarExists), "AADHAAR_EXISTS")
	})

	t.Run("PANTaken", func(t *testing.T) {
		run(t, businessflow.NewBusinessError("PAN_EXISTS", "PAN already registered", businessflow.ErrPANExists), "PAN_EXISTS")
	})
}
