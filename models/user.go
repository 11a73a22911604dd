// Package models contains domain entities and business models for the lending marketplace
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Phone        *string   `gorm:"size:15" json:"phone,omitempty"`

	// KYC fields. Aadhaar and PAN are unique when present; empty values are
	// stored as NULL so the partial unique indexes do not collide.
	Aadhaar           *string `gorm:"size:12;uniqueIndex:uk_users_aadhaar" json:"aadhaar,omitempty"`
	PAN               *string `gorm:"size:10;uniqueIndex:uk_users_pan" json:"pan,omitempty"`
	BankAccountNumber *string `gorm:"size:20" json:"bank_account_number,omitempty"`
	BankIFSC          *string `gorm:"size:11" json:"bank_ifsc,omitempty"`
	BankName          *string `gorm:"size:100" json:"bank_name,omitempty"`
	AccountHolderName *string `gorm:"size:255" json:"account_holder_name,omitempty"`

	KYCStatus       string `gorm:"size:20;default:pending;index:idx_users_kyc_status" json:"kyc_status"`
	AadhaarVerified *bool  `gorm:"default:false" json:"aadhaar_verified"`
	PANVerified     *bool  `gorm:"default:false" json:"pan_verified"`
	BankVerified    *bool  `gorm:"default:false" json:"bank_verified"`

	IsActive    *bool      `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_users_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_users_last_login_at" json:"last_login_at,omitempty"`

	// Relations
	Sessions   []UserSession           `gorm:"foreignKey:UserID" json:"-"`
	Challenges []VerificationChallenge `gorm:"foreignKey:UserID" json:"-"`
	AuditLogs  []AuditLog              `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// KYC status constants
const (
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	Phone         *string
	Aadhaar       *string
	PAN           *string
	KYCStatus     *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (u *User) IsKYCVerified() bool {
	return u.KYCStatus == KYCStatusVerified
}

// AllTargetsVerified reports whether every KYC target has been verified.
func (u *User) AllTargetsVerified() bool {
	verified := func(b *bool) bool { return b != nil && *b }
	return verified(u.AadhaarVerified) && verified(u.PANVerified) && verified(u.BankVerified)
}
