// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/app/services"
	"github.com/acelion55/finonest/repository"
	"github.com/gofiber/fiber/v3"
)

// AuthMiddleware validates session tokens for protected endpoints. A token is
// only accepted when its device claim matches the X-Device-Id header and a
// live session row still holds the exact token.
type AuthMiddleware struct {
	tokenService services.TokenService
	sessionRepo  repository.UserSessionRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, sessionRepo repository.UserSessionRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		sessionRepo:  sessionRepo,
	}
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: code,
		},
	})
}

// Authenticate is the middleware function that validates session tokens
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required", "TOKEN_INVALID")
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'", "TOKEN_INVALID")
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return unauthorized(c, "Access token is required", "TOKEN_INVALID")
		}

		deviceID := c.Get("X-Device-Id")
		if deviceID == "" {
			return unauthorized(c, "X-Device-Id header is required", "MISSING_DEVICE_ID")
		}

		claims, err := m.tokenService.ValidateToken(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return unauthorized(c, "Access token has expired", "TOKEN_EXPIRED")
			}
			return unauthorized(c, "Invalid access token", "TOKEN_INVALID")
		}

		if claims.DeviceID != deviceID {
			return unauthorized(c, "Token was issued for a different device", "DEVICE_MISMATCH")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		session, err := m.sessionRepo.ActiveSession(ctx, claims.UserID, deviceID, token)
		if err != nil || session == nil {
			return unauthorized(c, "No active session for this device", "SESSION_NOT_FOUND")
		}

		// Store user information in context for downstream handlers
		c.Locals("user_id", claims.UserID)
		c.Locals("device_id", deviceID)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(c fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("user_id").(uint)
	return userID, ok
}

// GetDeviceIDFromContext extracts the device ID from the request context
func GetDeviceIDFromContext(c fiber.Ctx) (string, bool) {
	deviceID, ok := c.Locals("device_id").(string)
	return deviceID, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.TokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.TokenClaims)
	return claims, ok
}
