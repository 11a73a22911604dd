// Package models contains domain entities and business models for the lending marketplace
package models

import "time"

// LeadApplication is a single parameterized store for all five application
// product lines. ProductType selects which variant fields are meaningful;
// required-field rules per type live in the application flow.
type LeadApplication struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProductType string `gorm:"size:20;not null;index:idx_applications_product_type" json:"product_type"`
	UserID      uint   `gorm:"not null;index:idx_applications_user_id" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	// Common contact fields
	FullName     string `gorm:"size:255;not null" json:"full_name"`
	MobileNumber string `gorm:"size:15;not null" json:"mobile_number"`
	Email        string `gorm:"size:255;not null" json:"email"`

	// Catalog product reference (catalog-backed variants)
	ProductID   *int    `gorm:"index:idx_applications_product_id" json:"product_id,omitempty"`
	ProductName *string `gorm:"size:255" json:"product_name,omitempty"`
	Bank        *string `gorm:"size:100;index:idx_applications_bank" json:"bank,omitempty"`

	LoanAmount *float64 `json:"loan_amount,omitempty"`

	// Car loan
	CarType *string `gorm:"size:10" json:"car_type,omitempty"`

	// Business loan
	BusinessName  *string  `gorm:"size:255" json:"business_name,omitempty"`
	BusinessType  *string  `gorm:"size:100" json:"business_type,omitempty"`
	AnnualRevenue *float64 `json:"annual_revenue,omitempty"`
	BusinessAge   *string  `gorm:"size:50" json:"business_age,omitempty"`

	// Personal loan / offline
	MonthlyIncome  *float64 `json:"monthly_income,omitempty"`
	EmploymentType *string  `gorm:"size:50" json:"employment_type,omitempty"`
	LoanPurpose    *string  `gorm:"size:255" json:"loan_purpose,omitempty"`

	Agreed    *bool     `gorm:"not null;default:false" json:"agreed"`
	Status    string    `gorm:"size:20;default:pending;index:idx_applications_status" json:"status"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_applications_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (LeadApplication) TableName() string {
	return "lead_applications"
}

// Product type constants
const (
	ProductTypeCreditCard   = "creditcard"
	ProductTypePersonalLoan = "personalloan"
	ProductTypeCarLoan      = "carloan"
	ProductTypeBusinessLoan = "businessloan"
	ProductTypeOffline      = "offline"
)

// Application status constants (canonical lowercase)
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Car type constants
const (
	CarTypeNew  = "New"
	CarTypeUsed = "Used"
)

// LeadApplicationFilter represents filter criteria for application queries
type LeadApplicationFilter struct {
	ID            *uint
	ProductType   *string
	UserID        *uint
	Email         *string
	MobileNumber  *string
	ProductID     *int
	Bank          *string
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ValidApplicationProductType reports whether t names an application store.
func ValidApplicationProductType(t string) bool {
	switch t {
	case ProductTypeCreditCard, ProductTypePersonalLoan, ProductTypeCarLoan,
		ProductTypeBusinessLoan, ProductTypeOffline:
		return true
	}
	return false
}

// ValidApplicationStatus reports whether s is one of the canonical statuses.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// ValidCarType reports whether t is an accepted car type.
func ValidCarType(t string) bool {
	return t == CarTypeNew || t == CarTypeUsed
}
