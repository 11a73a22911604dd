// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreatePayoutRequest represents a new ledger entry. FinalPayout is never
// accepted from the client; the server computes it.
type CreatePayoutRequest struct {
	ReferralID   string  `json:"referralId" validate:"required,max=100"`
	ReferralName *string `json:"referralName,omitempty" validate:"omitempty,max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	MobileNumber *string `json:"mobileNumber,omitempty" validate:"omitempty,min=10,max=15"`
	LeadID       *string `json:"leadId,omitempty" validate:"omitempty,max=100"`
	CustomerName *string `json:"customerName,omitempty" validate:"omitempty,max=255"`
	Product      *string `json:"product,omitempty" validate:"omitempty,max=255"`

	LeadStatus *string `json:"leadStatus,omitempty" validate:"omitempty,oneof=pending approved rejected converted"`

	Commission *float64 `json:"commission,omitempty" validate:"omitempty,gte=0"`
	Bonus      *float64 `json:"bonus,omitempty" validate:"omitempty,gte=0"`
	Deduction  *float64 `json:"deduction,omitempty" validate:"omitempty,gte=0"`
	Remark     *string  `json:"remark,omitempty" validate:"omitempty,max=500"`

	PayoutStatus *string `json:"payoutStatus,omitempty" validate:"omitempty,oneof=pending processing completed failed"`
	PayoutDate   *string `json:"payoutDate,omitempty"`
}

// UpdatePayoutRequest represents a partial ledger entry update
type UpdatePayoutRequest struct {
	ReferralName *string `json:"referralName,omitempty" validate:"omitempty,max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	MobileNumber *string `json:"mobileNumber,omitempty" validate:"omitempty,min=10,max=15"`
	CustomerName *string `json:"customerName,omitempty" validate:"omitempty,max=255"`
	Product      *string `json:"product,omitempty" validate:"omitempty,max=255"`

	LeadStatus *string `json:"leadStatus,omitempty" validate:"omitempty,oneof=pending approved rejected converted"`

	Commission *float64 `json:"commission,omitempty" validate:"omitempty,gte=0"`
	Bonus      *float64 `json:"bonus,omitempty" validate:"omitempty,gte=0"`
	Deduction  *float64 `json:"deduction,omitempty" validate:"omitempty,gte=0"`
	Remark     *string  `json:"remark,omitempty" validate:"omitempty,max=500"`

	PayoutStatus *string `json:"payoutStatus,omitempty" validate:"omitempty,oneof=pending processing completed failed"`
	PayoutDate   *string `json:"payoutDate,omitempty"`
}

// PayoutDTO represents a ledger entry for API responses
type PayoutDTO struct {
	ID           uint    `json:"id"`
	ReferralID   string  `json:"referralId"`
	ReferralName *string `json:"referralName,omitempty"`
	Email        *string `json:"email,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	LeadID       *string `json:"leadId,omitempty"`
	CustomerName *string `json:"customerName,omitempty"`
	Product      *string `json:"product,omitempty"`

	LeadStatus string `json:"leadStatus"`

	Commission  float64 `json:"commission"`
	Bonus       float64 `json:"bonus"`
	Deduction   float64 `json:"deduction"`
	FinalPayout float64 `json:"finalPayout"`
	Remark      *string `json:"remark,omitempty"`

	PayoutStatus string  `json:"payoutStatus"`
	PayoutDate   *string `json:"payoutDate,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
