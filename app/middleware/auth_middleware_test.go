// Package middleware_test verifies the device-scoped session authentication
package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acelion55/finonest/app/middleware"
	"github.com/acelion55/finonest/app/services"
	"github.com/acelion55/finonest/models"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSessionRepo serves a single canned session row for ActiveSession
// lookups; everything else is unused by the middleware.
type stubSessionRepo struct {
	active *models.UserSession
}

func (s *stubSessionRepo) ByID(ctx context.Context, id uint) (*models.UserSession, error) {
	return nil, nil
}

func (s *stubSessionRepo) ByFilter(ctx context.Context, filter models.UserSessionFilter, orderBy string, limit, offset int) ([]*models.UserSession, error) {
	return nil, nil
}

func (s *stubSessionRepo) Save(ctx context.Context, entity *models.UserSession) error { return nil }

func (s *stubSessionRepo) SaveBatch(ctx context.Context, entities []*models.UserSession) error {
	return nil
}

func (s *stubSessionRepo) Update(ctx context.Context, entity *models.UserSession) error { return nil }

func (s *stubSessionRepo) Delete(ctx context.Context, id uint) error { return nil }

func (s *stubSessionRepo) Count(ctx context.Context, filter models.UserSessionFilter) (int64, error) {
	return 0, nil
}

func (s *stubSessionRepo) Exists(ctx context.Context, filter models.UserSessionFilter) (bool, error) {
	return false, nil
}

func (s *stubSessionRepo) ByToken(ctx context.Context, token string) (*models.UserSession, error) {
	return nil, nil
}

func (s *stubSessionRepo) ActiveSession(ctx context.Context, userID uint, deviceID, token string) (*models.UserSession, error) {
	if s.active == nil {
		return nil, nil
	}
	if s.active.UserID != userID || s.active.DeviceID != deviceID || s.active.SessionToken != token {
		return nil, nil
	}
	return s.active, nil
}

func (s *stubSessionRepo) DeleteByUserAndDevice(ctx context.Context, userID uint, deviceID string) error {
	return nil
}

func (s *stubSessionRepo) DeleteExpiredByUser(ctx context.Context, userID uint) error { return nil }

func (s *stubSessionRepo) DeleteAllExpired(ctx context.Context) (int64, error) { return 0, nil }

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestAuthenticate(t *testing.T) {
	tokenService, err := services.NewTokenService(time.Hour, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars")
	require.NoError(t, err)

	const userID = uint(42)
	const deviceID = "device-alpha"

	token, _, err := tokenService.IssueToken(userID, deviceID)
	require.NoError(t, err)

	sessionRepo := &stubSessionRepo{
		active: &models.UserSession{
			UserID:       userID,
			DeviceID:     deviceID,
			SessionToken: token,
			ExpiresAt:    time.Now().UTC().Add(time.Hour),
		},
	}

	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionRepo)

	app := fiber.New()
	app.Get("/protected", authMiddleware.Authenticate(), func(c fiber.Ctx) error {
		userID, _ := middleware.GetUserIDFromContext(c)
		return c.JSON(fiber.Map{"success": true, "user_id": userID})
	})

	request := func(token, device string) *http.Response {
		req := httptest.NewRequest("GET", "/protected", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if device != "" {
			req.Header.Set("X-Device-Id", device)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("ValidTokenAndDevicePasses", func(t *testing.T) {
		resp := request(token, deviceID)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("DeviceMismatchIsRejected", func(t *testing.T) {
		// A validly signed token presented from another device must not pass
		resp := request(token, "device-beta")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.Equal(t, "DEVICE_MISMATCH", env.Error.Code)
	})

	t.Run("MissingDeviceHeader", func(t *testing.T) {
		resp := request(token, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "MISSING_DEVICE_ID", decodeEnvelope(t, resp).Error.Code)
	})

	t.Run("MissingAuthorizationHeader", func(t *testing.T) {
		resp := request("", deviceID)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "TOKEN_INVALID", decodeEnvelope(t, resp).Error.Code)
	})

	t.Run("GarbageTokenIsRejected", func(t *testing.T) {
		resp := request("not-a-jwt", deviceID)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "TOKEN_INVALID", decodeEnvelope(t, resp).Error.Code)
	})

	t.Run("NoLiveSessionIsRejected", func(t *testing.T) {
		otherToken, _, err := tokenService.IssueToken(userID, deviceID)
		require.NoError(t, err)

		// The token verifies and the device matches, but the store no longer
		// holds this exact token
		resp := request(otherToken, deviceID)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "SESSION_NOT_FOUND", decodeEnvelope(t, resp).Error.Code)
	})
}
