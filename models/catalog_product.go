// Package models contains domain entities and business models for the lending marketplace
package models

import (
	"encoding/json"
	"time"
)

// CatalogProduct is a single parameterized store for the three product
// catalogs. ProductID is the operator-assigned numeric identifier, unique
// within each catalog.
type CatalogProduct struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CatalogType string          `gorm:"size:20;not null;uniqueIndex:uk_catalog_type_product_id;index:idx_catalog_type" json:"catalog_type"`
	ProductID   int             `gorm:"not null;uniqueIndex:uk_catalog_type_product_id" json:"product_id"`
	Bank        string          `gorm:"size:100;not null;index:idx_catalog_bank" json:"bank"`
	BankLogo    *string         `gorm:"type:text" json:"bank_logo,omitempty"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Image       *string         `gorm:"type:text" json:"image,omitempty"`
	Features    json.RawMessage `gorm:"type:jsonb" json:"features,omitempty"` // JSON array of strings
	Color       *string         `gorm:"size:50" json:"color,omitempty"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`

	// Loan catalogs only
	MinAmount    *float64 `json:"min_amount,omitempty"`
	MaxAmount    *float64 `json:"max_amount,omitempty"`
	InterestRate *string  `gorm:"size:50" json:"interest_rate,omitempty"`
	Tenure       *string  `gorm:"size:100" json:"tenure,omitempty"`

	IsActive  *bool     `gorm:"default:true;index:idx_catalog_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}

// Catalog type constants
const (
	CatalogTypeCreditCard   = "creditcard"
	CatalogTypePersonalLoan = "personalloan"
	CatalogTypeCarLoan      = "carloan"
)

// CatalogProductFilter represents filter criteria for catalog queries
type CatalogProductFilter struct {
	ID          *uint
	CatalogType *string
	ProductID   *int
	Bank        *string
	Name        *string
	IsActive    *bool
}

// ValidCatalogType reports whether t names one of the three catalogs.
func ValidCatalogType(t string) bool {
	switch t {
	case CatalogTypeCreditCard, CatalogTypePersonalLoan, CatalogTypeCarLoan:
		return true
	}
	return false
}
