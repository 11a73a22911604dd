// Package models contains domain entities and business models for the lending marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is a device-scoped session. At most one live session exists per
// (user, device); login deletes the device's prior sessions before inserting.
type UserSession struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CorrelationID uuid.UUID `gorm:"type:uuid;not null;index:idx_sessions_correlation_id" json:"correlation_id"`
	UserID        uint      `gorm:"not null;index:idx_sessions_user_id" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	DeviceID      string    `gorm:"size:255;not null;index:idx_sessions_device_id" json:"device_id"`
	SessionToken  string    `gorm:"size:512;not null;uniqueIndex:idx_sessions_session_token" json:"-"` // Never serialize token
	IPAddress     *string   `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent     *string   `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	ExpiresAt     time.Time `gorm:"not null;index:idx_sessions_expires_at" json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// UserSessionFilter represents filter criteria for session queries
type UserSessionFilter struct {
	ID            *uint
	CorrelationID *uuid.UUID
	UserID        *uint
	DeviceID      *string
	SessionToken  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	IsExpired     *bool // Helper to filter expired sessions
}

func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *UserSession) IsValid() bool {
	return !s.IsExpired()
}
