// Package models contains domain entities and business models for the lending marketplace
package models

import "time"

// Payout is a manually operated ledger entry for referral earnings.
// FinalPayout is always recomputed as commission + bonus - deduction from the
// merged state on every write; it is never accepted from the client.
type Payout struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ReferralID   string  `gorm:"size:100;not null;index:idx_payouts_referral_id" json:"referral_id"`
	ReferralName *string `gorm:"size:255" json:"referral_name,omitempty"`
	Email        *string `gorm:"size:255" json:"email,omitempty"`
	MobileNumber *string `gorm:"size:15" json:"mobile_number,omitempty"`
	LeadID       *string `gorm:"size:100;index:idx_payouts_lead_id" json:"lead_id,omitempty"`
	CustomerName *string `gorm:"size:255" json:"customer_name,omitempty"`
	Product      *string `gorm:"size:255" json:"product,omitempty"`

	LeadStatus string `gorm:"size:20;default:pending" json:"lead_status"`

	Commission  float64 `gorm:"default:0" json:"commission"`
	Bonus       float64 `gorm:"default:0" json:"bonus"`
	Deduction   float64 `gorm:"default:0" json:"deduction"`
	FinalPayout float64 `gorm:"default:0" json:"final_payout"`
	Remark      *string `gorm:"type:text" json:"remark,omitempty"`

	PayoutStatus string     `gorm:"size:20;default:pending;index:idx_payouts_status" json:"payout_status"`
	PayoutDate   *time.Time `json:"payout_date,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_payouts_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Payout) TableName() string {
	return "payouts"
}

// Lead status constants
const (
	LeadStatusPending   = "pending"
	LeadStatusApproved  = "approved"
	LeadStatusRejected  = "rejected"
	LeadStatusConverted = "converted"
)

// Payout status constants
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// PayoutFilter represents filter criteria for payout queries
type PayoutFilter struct {
	ID            *uint
	ReferralID    *string
	LeadID        *string
	LeadStatus    *string
	PayoutStatus  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ComputeFinalPayout applies the ledger formula to the current amounts.
func (p *Payout) ComputeFinalPayout() {
	p.FinalPayout = p.Commission + p.Bonus - p.Deduction
}
