// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateProductLinkRequest represents a referral link creation request
type CreateProductLinkRequest struct {
	ReferralID   *string `json:"referralId,omitempty" validate:"omitempty,max=100"`
	ReferralName *string `json:"referralName,omitempty" validate:"omitempty,max=255"`
	ProductType  string  `json:"productType" validate:"required,oneof=creditcard personalloan carloan"`
	Bank         string  `json:"bank" validate:"required,max=100"`
	ProductName  string  `json:"productName" validate:"required,max=255"`
	ProductID    int     `json:"productId" validate:"required,gt=0"`
	ProductImage *string `json:"productImage,omitempty"`

	ExpiryDate *string `json:"expiryDate,omitempty"`

	MetaSource   *string `json:"metaSource,omitempty" validate:"omitempty,max=100"`
	MetaCampaign *string `json:"metaCampaign,omitempty" validate:"omitempty,max=100"`
	MetaNotes    *string `json:"metaNotes,omitempty"`
}

// UpdateProductLinkRequest represents a partial referral link update
type UpdateProductLinkRequest struct {
	ReferralName *string `json:"referralName,omitempty" validate:"omitempty,max=255"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive expired"`
	ExpiryDate   *string `json:"expiryDate,omitempty"`
	Conversions  *int    `json:"conversions,omitempty" validate:"omitempty,gte=0"`

	MetaSource   *string `json:"metaSource,omitempty" validate:"omitempty,max=100"`
	MetaCampaign *string `json:"metaCampaign,omitempty" validate:"omitempty,max=100"`
	MetaNotes    *string `json:"metaNotes,omitempty"`
}

// ProductLinkDTO represents a referral link for API responses
type ProductLinkDTO struct {
	ID           uint    `json:"id"`
	UniqueCode   string  `json:"uniqueCode"`
	ReferralID   *string `json:"referralId,omitempty"`
	ReferralName *string `json:"referralName,omitempty"`
	ProductType  string  `json:"productType"`
	Bank         string  `json:"bank"`
	ProductName  string  `json:"productName"`
	ProductID    int     `json:"productId"`
	ProductImage *string `json:"productImage,omitempty"`
	ShareableURL string  `json:"shareableUrl"`

	Clicks        int     `json:"clicks"`
	Conversions   int     `json:"conversions"`
	LastClickedAt *string `json:"lastClickedAt,omitempty"`

	Status     string  `json:"status"`
	ExpiryDate *string `json:"expiryDate,omitempty"`

	MetaSource   *string `json:"metaSource,omitempty"`
	MetaCampaign *string `json:"metaCampaign,omitempty"`
	MetaNotes    *string `json:"metaNotes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// LinkBanksResponse lists the banks offering products of one catalog
type LinkBanksResponse struct {
	ProductType string   `json:"productType"`
	Banks       []string `json:"banks"`
}

// LinkProductsResponse lists the products one bank offers in one catalog
type LinkProductsResponse struct {
	ProductType string              `json:"productType"`
	Bank        string              `json:"bank"`
	Products    []CatalogProductDTO `json:"products"`
}
