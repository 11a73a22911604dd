// Package services provides external service integrations and technical concerns like tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		30*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name          string
		tokenTTL      time.Duration
		issuer        string
		audience      string
		useRSAKeys    bool
		privateKeyPEM string
		publicKeyPEM  string
		secretKey     string
		expectError   bool
	}{
		{
			name:        "valid symmetric key configuration",
			tokenTTL:    30 * 24 * time.Hour,
			issuer:      "test-issuer",
			audience:    "test-audience",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			tokenTTL:    30 * 24 * time.Hour,
			issuer:      "test-issuer",
			audience:    "test-audience",
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "missing RSA keys",
			tokenTTL:    30 * 24 * time.Hour,
			issuer:      "test-issuer",
			audience:    "test-audience",
			useRSAKeys:  true,
			expectError: true,
		},
		{
			name:        "empty issuer and audience",
			tokenTTL:    30 * 24 * time.Hour,
			issuer:      "",
			audience:    "",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false, // Should not error, just use empty strings
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				tt.tokenTTL,
				tt.issuer,
				tt.audience,
				tt.useRSAKeys,
				tt.privateKeyPEM,
				tt.publicKeyPEM,
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestIssueToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name     string
		userID   uint
		deviceID string
	}{
		{
			name:     "valid user and device",
			userID:   123,
			deviceID: "device-abc",
		},
		{
			name:     "zero user ID",
			userID:   0,
			deviceID: "device-abc",
		},
		{
			name:     "empty device ID",
			userID:   123,
			deviceID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiresAt, err := service.IssueToken(tt.userID, tt.deviceID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.True(t, expiresAt.After(time.Now()))
		})
	}
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	t.Run("round trip preserves claims", func(t *testing.T) {
		token, expiresAt, err := service.IssueToken(42, "device-xyz")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, "device-xyz", claims.DeviceID)
		assert.NotEmpty(t, claims.TokenID)
		assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		claims, err := service.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Nil(t, claims)
	})

	t.Run("token signed with different key rejected", func(t *testing.T) {
		other, err := NewTokenService(
			30*24*time.Hour, "test-issuer", "test-audience",
			false, "", "", "another-secret-key-for-jwt-signing-32",
		)
		require.NoError(t, err)

		token, _, err := other.IssueToken(42, "device-xyz")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
		assert.Nil(t, claims)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		shortLived, err := NewTokenService(
			-time.Minute, "test-issuer", "test-audience",
			false, "", "", "test-secret-key-for-jwt-signing-32-chars",
		)
		require.NoError(t, err)

		token, _, err := shortLived.IssueToken(42, "device-xyz")
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Nil(t, claims)
	})

	t.Run("two tokens get distinct jtis", func(t *testing.T) {
		t1, _, err := service.IssueToken(1, "d1")
		require.NoError(t, err)
		t2, _, err := service.IssueToken(1, "d1")
		require.NoError(t, err)

		c1, err := service.ValidateToken(t1)
		require.NoError(t, err)
		c2, err := service.ValidateToken(t2)
		require.NoError(t, err)
		assert.NotEqual(t, c1.TokenID, c2.TokenID)
	})
}
