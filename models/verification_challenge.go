// Package models contains domain entities and business models for the lending marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationChallenge is a server-issued short-lived code used to verify a
// single KYC target (aadhaar, pan or bank). Verification is attempted against
// the server-held code, never a code supplied by the client at issue time.
type VerificationChallenge struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_challenges_correlation_id" json:"correlation_id"`
	UserID        uint       `gorm:"not null;index:idx_challenges_user_id" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Target        string     `gorm:"size:20;not null;index:idx_challenges_target_status" json:"target"`
	Code          string     `gorm:"size:6;not null" json:"-"` // Never serialize challenge code
	Status        string     `gorm:"size:20;default:pending;index:idx_challenges_target_status" json:"status"`
	AttemptsCount int        `gorm:"default:0" json:"attempts_count"`
	MaxAttempts   int        `gorm:"default:3" json:"max_attempts"`
	CreatedAt     time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_challenges_created_at" json:"created_at"`
	ExpiresAt     time.Time  `gorm:"not null;index:idx_challenges_expires_at" json:"expires_at"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	IPAddress     *string    `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent     *string    `gorm:"type:text" json:"user_agent,omitempty"`
}

func (VerificationChallenge) TableName() string {
	return "verification_challenges"
}

// Challenge target constants
const (
	ChallengeTargetAadhaar = "aadhaar"
	ChallengeTargetPAN     = "pan"
	ChallengeTargetBank    = "bank"
)

// Challenge status constants
const (
	ChallengeStatusPending  = "pending"
	ChallengeStatusVerified = "verified"
	ChallengeStatusFailed   = "failed"
	ChallengeStatusExpired  = "expired"
)

// VerificationChallengeFilter represents filter criteria for challenge queries
type VerificationChallengeFilter struct {
	ID            *uint
	CorrelationID *uuid.UUID
	UserID        *uint
	Target        *string
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	IsActive      *bool // Helper to filter non-expired pending challenges
}

func (c *VerificationChallenge) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

func (c *VerificationChallenge) IsPending() bool {
	return c.Status == ChallengeStatusPending
}

func (c *VerificationChallenge) CanAttempt() bool {
	return c.AttemptsCount < c.MaxAttempts && !c.IsExpired() && c.IsPending()
}

// ValidChallengeTarget reports whether target names a KYC target.
func ValidChallengeTarget(target string) bool {
	switch target {
	case ChallengeTargetAadhaar, ChallengeTargetPAN, ChallengeTargetBank:
		return true
	}
	return false
}
