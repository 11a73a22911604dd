// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateCatalogProductRequest represents an operator adding a product to a catalog
type CreateCatalogProductRequest struct {
	ProductID   int      `json:"productId" validate:"required,gt=0"`
	Bank        string   `json:"bank" validate:"required,max=100"`
	BankLogo    *string  `json:"bankLogo,omitempty"`
	Name        string   `json:"name" validate:"required,max=255"`
	Image       *string  `json:"image,omitempty"`
	Features    []string `json:"features,omitempty"`
	Color       *string  `json:"color,omitempty" validate:"omitempty,max=50"`
	Description *string  `json:"description,omitempty"`

	MinAmount    *float64 `json:"minAmount,omitempty" validate:"omitempty,gt=0"`
	MaxAmount    *float64 `json:"maxAmount,omitempty" validate:"omitempty,gt=0"`
	InterestRate *string  `json:"interestRate,omitempty" validate:"omitempty,max=50"`
	Tenure       *string  `json:"tenure,omitempty" validate:"omitempty,max=100"`

	IsActive *bool `json:"isActive,omitempty"`
}

// UpdateCatalogProductRequest represents a partial catalog product update
type UpdateCatalogProductRequest struct {
	Bank        *string  `json:"bank,omitempty" validate:"omitempty,max=100"`
	BankLogo    *string  `json:"bankLogo,omitempty"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Image       *string  `json:"image,omitempty"`
	Features    []string `json:"features,omitempty"`
	Color       *string  `json:"color,omitempty" validate:"omitempty,max=50"`
	Description *string  `json:"description,omitempty"`

	MinAmount    *float64 `json:"minAmount,omitempty" validate:"omitempty,gt=0"`
	MaxAmount    *float64 `json:"maxAmount,omitempty" validate:"omitempty,gt=0"`
	InterestRate *string  `json:"interestRate,omitempty" validate:"omitempty,max=50"`
	Tenure       *string  `json:"tenure,omitempty" validate:"omitempty,max=100"`

	IsActive *bool `json:"isActive,omitempty"`
}

// CatalogProductDTO represents a catalog product for API responses
type CatalogProductDTO struct {
	ID          uint     `json:"id"`
	CatalogType string   `json:"catalogType"`
	ProductID   int      `json:"productId"`
	Bank        string   `json:"bank"`
	BankLogo    *string  `json:"bankLogo,omitempty"`
	Name        string   `json:"name"`
	Image       *string  `json:"image,omitempty"`
	Features    []string `json:"features"`
	Color       *string  `json:"color,omitempty"`
	Description *string  `json:"description,omitempty"`

	MinAmount    *float64 `json:"minAmount,omitempty"`
	MaxAmount    *float64 `json:"maxAmount,omitempty"`
	InterestRate *string  `json:"interestRate,omitempty"`
	Tenure       *string  `json:"tenure,omitempty"`

	IsActive  *bool  `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
