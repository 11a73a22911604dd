// Package models contains domain entities and business models for the lending marketplace
package models

import "time"

// ProductLink is a shareable referral link for a catalog product. UniqueCode
// is the short token embedded in the shareable URL; Clicks is incremented
// atomically in storage on every resolution.
type ProductLink struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UniqueCode   string  `gorm:"size:64;not null;uniqueIndex:uk_product_links_code" json:"unique_code"`
	ReferralID   *string `gorm:"size:100;index:idx_product_links_referral_id" json:"referral_id,omitempty"`
	ReferralName *string `gorm:"size:255" json:"referral_name,omitempty"`
	ProductType  string  `gorm:"size:20;not null;index:idx_product_links_product_type" json:"product_type"`
	Bank         string  `gorm:"size:100;not null" json:"bank"`
	ProductName  string  `gorm:"size:255;not null" json:"product_name"`
	ProductID    int     `gorm:"not null" json:"product_id"`
	ProductImage *string `gorm:"type:text" json:"product_image,omitempty"`
	ShareableURL string  `gorm:"type:text;not null" json:"shareable_url"`

	Clicks        int        `gorm:"default:0" json:"clicks"`
	Conversions   int        `gorm:"default:0" json:"conversions"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty"`

	Status     string     `gorm:"size:20;default:active;index:idx_product_links_status" json:"status"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`

	MetaSource   *string `gorm:"size:100" json:"meta_source,omitempty"`
	MetaCampaign *string `gorm:"size:100" json:"meta_campaign,omitempty"`
	MetaNotes    *string `gorm:"type:text" json:"meta_notes,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_product_links_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (ProductLink) TableName() string {
	return "product_links"
}

// Product link status constants
const (
	ProductLinkStatusActive   = "active"
	ProductLinkStatusInactive = "inactive"
	ProductLinkStatusExpired  = "expired"
)

// ProductLinkFilter represents filter criteria for product link queries
type ProductLinkFilter struct {
	ID            *uint
	UniqueCode    *string
	ReferralID    *string
	ProductType   *string
	Bank          *string
	ProductID     *int
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
