// Package models contains domain entities and business models for the lending marketplace
package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       *uint           `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	User         *User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Action       string          `gorm:"size:50;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionSignupCompleted      = "signup_completed"
	AuditActionLoginSuccessful      = "login_successful"
	AuditActionLoginFailed          = "login_failed"
	AuditActionProfileUpdated       = "profile_updated"
	AuditActionKYCChallengeIssued   = "kyc_challenge_issued"
	AuditActionKYCChallengeVerified = "kyc_challenge_verified"
	AuditActionKYCChallengeFailed   = "kyc_challenge_failed"
	AuditActionSessionCreated       = "session_created"
	AuditActionSessionReplaced      = "session_replaced"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserID        *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccessful:    true,
		AuditActionLoginFailed:        true,
		AuditActionKYCChallengeFailed: true,
	}
	return securityActions[a.Action]
}
