// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"time"

	"github.com/acelion55/finonest/app/dto"
	businessflow "github.com/acelion55/finonest/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication and profile handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Me(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	IssueKYCChallenge(c fiber.Ctx) error
	VerifyKYCChallenge(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	signupFlow  businessflow.SignupFlow
	loginFlow   businessflow.LoginFlow
	profileFlow businessflow.ProfileFlow
	kycFlow     businessflow.KYCFlow
	validator   *validator.Validate
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(signupFlow businessflow.SignupFlow, loginFlow businessflow.LoginFlow, profileFlow businessflow.ProfileFlow, kycFlow businessflow.KYCFlow) AuthHandlerInterface {
	return &AuthHandler{
		signupFlow:  signupFlow,
		loginFlow:   loginFlow,
		profileFlow: profileFlow,
		kycFlow:     kycFlow,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"), c.Get("X-Device-Id"))
}

// Signup handles user registration and issues a device-bound session
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.signupFlow.Signup(createRequestContext(c, "/api/auth/signup"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsMissingDeviceID(err) {
			return errorResponse(c, fiber.StatusBadRequest, "X-Device-Id header is required", "MISSING_DEVICE_ID", nil)
		}
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Email already exists", "EMAIL_EXISTS", nil)
		}

		log.Println("Signup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Signup failed", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Signup successful", result)
}

// Login authenticates a user and replaces any session for the same device
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.loginFlow.Login(createRequestContext(c, "/api/auth/login"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsMissingDeviceID(err) {
			return errorResponse(c, fiber.StatusBadRequest, "X-Device-Id header is required", "MISSING_DEVICE_ID", nil)
		}
		if businessflow.IsInvalidCredentials(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}

		log.Println("Login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
	}

	result, err := h.profileFlow.Me(createRequestContext(c, "/api/auth/me"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "NOT_FOUND", nil)
		}

		log.Println("Fetch profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch profile", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile fetched", result)
}

// UpdateProfile applies a partial profile/KYC update for the authenticated user
func (h *AuthHandler) UpdateProfile(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.profileFlow.UpdateProfile(createRequestContext(c, "/api/auth/profile"), userID, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "NOT_FOUND", nil)
		}
		if businessflow.IsAadhaarExists(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Aadhaar already registered", "AADHAAR_EXISTS", nil)
		}
		if businessflow.IsPANExists(err) {
			return errorResponse(c, fiber.StatusBadRequest, "PAN already registered", "PAN_EXISTS", nil)
		}

		log.Println("Update profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Profile updated", result)
}

// IssueKYCChallenge issues a verification code for one KYC target
func (h *AuthHandler) IssueKYCChallenge(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
	}

	var req dto.IssueChallengeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.kycFlow.IssueChallenge(createRequestContext(c, "/api/auth/kyc/challenge"), userID, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "NOT_FOUND", nil)
		}
		if businessflow.IsTargetNotSet(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Target field is not set on the profile", "VALIDATION_ERROR", nil)
		}
		if businessflow.IsAlreadyVerified(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Target is already verified", "VALIDATION_ERROR", nil)
		}

		log.Println("Issue KYC challenge failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to issue challenge", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Challenge issued", result)
}

// VerifyKYCChallenge submits the code for a pending KYC challenge
func (h *AuthHandler) VerifyKYCChallenge(c fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "TOKEN_INVALID", nil)
	}

	var req dto.VerifyChallengeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if validationErrors := validateStruct(h.validator, &req); validationErrors != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.kycFlow.VerifyChallenge(createRequestContext(c, "/api/auth/kyc/verify"), userID, &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "NOT_FOUND", nil)
		}
		if businessflow.IsNoValidChallenge(err) {
			return errorResponse(c, fiber.StatusBadRequest, "No pending challenge for target", "VALIDATION_ERROR", nil)
		}
		if businessflow.IsChallengeExpired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Challenge has expired", "VALIDATION_ERROR", nil)
		}
		if businessflow.IsTooManyAttempts(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Too many attempts", "VALIDATION_ERROR", nil)
		}
		if businessflow.IsInvalidCode(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid verification code", "VALIDATION_ERROR", nil)
		}

		log.Println("Verify KYC challenge failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to verify challenge", "INTERNAL_ERROR", nil)
	}

	return successResponse(c, fiber.StatusOK, "Challenge verified", result)
}

// Health handles health check requests
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return successResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
