// Package businessflow contains the core business logic and use cases for referral product links
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"gorm.io/gorm"
)

// ProductLinkFlow handles shareable referral links over the product catalogs
type ProductLinkFlow interface {
	Create(ctx context.Context, req *dto.CreateProductLinkRequest) (*dto.ProductLinkDTO, error)
	ListAll(ctx context.Context, limit, offset int) ([]dto.ProductLinkDTO, error)
	ResolveByCode(ctx context.Context, code string) (*dto.ProductLinkDTO, error)
	ListByReferral(ctx context.Context, referralID string) ([]dto.ProductLinkDTO, error)
	Update(ctx context.Context, id uint, req *dto.UpdateProductLinkRequest) (*dto.ProductLinkDTO, error)
	Delete(ctx context.Context, id uint) error
	ListBanksForType(ctx context.Context, productType string) (*dto.LinkBanksResponse, error)
	ListProductsForTypeAndBank(ctx context.Context, productType, bank string) (*dto.LinkProductsResponse, error)
}

// ProductLinkFlowImpl implements the product link business flow
type ProductLinkFlowImpl struct {
	linkRepo       repository.ProductLinkRepository
	catalogRepo    repository.CatalogProductRepository
	frontendOrigin string
	db             *gorm.DB
}

// NewProductLinkFlow creates a new product link flow instance. frontendOrigin
// is the public base URL embedded into shareable links.
func NewProductLinkFlow(linkRepo repository.ProductLinkRepository, catalogRepo repository.CatalogProductRepository, frontendOrigin string, db *gorm.DB) ProductLinkFlow {
	return &ProductLinkFlowImpl{
		linkRepo:       linkRepo,
		catalogRepo:    catalogRepo,
		frontendOrigin: strings.TrimRight(frontendOrigin, "/"),
		db:             db,
	}
}

// Create generates a unique code and shareable URL for a referral link
func (p *ProductLinkFlowImpl) Create(ctx context.Context, req *dto.CreateProductLinkRequest) (*dto.ProductLinkDTO, error) {
	if !models.ValidCatalogType(req.ProductType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiryDate)
		if err != nil {
			return nil, NewBusinessError("VALIDATION_ERROR", "expiry_date must be RFC3339", err)
		}
		expiryDate = &parsed
	}

	code, err := generateLinkCode(utils.UTCNow())
	if err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Failed to generate link code", err)
	}

	link := &models.ProductLink{
		UniqueCode:   code,
		ReferralID:   req.ReferralID,
		ReferralName: req.ReferralName,
		ProductType:  req.ProductType,
		Bank:         req.Bank,
		ProductName:  req.ProductName,
		ProductID:    req.ProductID,
		ProductImage: req.ProductImage,
		ShareableURL: p.frontendOrigin + utils.ProductLinkPath + code,
		Status:       models.ProductLinkStatusActive,
		ExpiryDate:   expiryDate,
		MetaSource:   req.MetaSource,
		MetaCampaign: req.MetaCampaign,
		MetaNotes:    req.MetaNotes,
	}

	if err := p.linkRepo.Save(ctx, link); err != nil {
		return nil, NewBusinessError("LINK_CREATE_FAILED", "Failed to create product link", err)
	}

	out := toProductLinkDTO(*link)
	return &out, nil
}

// ListAll returns links newest first
func (p *ProductLinkFlowImpl) ListAll(ctx context.Context, limit, offset int) ([]dto.ProductLinkDTO, error) {
	rows, err := p.linkRepo.ByFilter(ctx, models.ProductLinkFilter{}, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Failed to list product links", err)
	}
	return toProductLinkDTOs(rows), nil
}

// ResolveByCode records a click and returns the link. Every resolution
// increments the click counter and stamps last_clicked_at, including repeat
// resolutions of the same code.
func (p *ProductLinkFlowImpl) ResolveByCode(ctx context.Context, code string) (*dto.ProductLinkDTO, error) {
	link, err := p.linkRepo.ByUniqueCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("LINK_FETCH_FAILED", "Failed to fetch product link", err)
	}
	if link == nil {
		return nil, NewBusinessError("NOT_FOUND", "Product link not found", ErrLinkNotFound)
	}

	now := utils.UTCNow()
	if err := p.linkRepo.RecordClick(ctx, link.ID, now); err != nil {
		return nil, NewBusinessError("LINK_CLICK_FAILED", "Failed to record click", err)
	}
	link.Clicks++
	link.LastClickedAt = &now
	link.UpdatedAt = now

	out := toProductLinkDTO(*link)
	return &out, nil
}

// ListByReferral returns the links a referral partner created
func (p *ProductLinkFlowImpl) ListByReferral(ctx context.Context, referralID string) ([]dto.ProductLinkDTO, error) {
	rows, err := p.linkRepo.ListByReferral(ctx, referralID)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Failed to list product links", err)
	}
	return toProductLinkDTOs(rows), nil
}

// Update applies a partial update to a link. UniqueCode and the product
// snapshot are immutable after creation.
func (p *ProductLinkFlowImpl) Update(ctx context.Context, id uint, req *dto.UpdateProductLinkRequest) (*dto.ProductLinkDTO, error) {
	link, err := p.findLink(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ReferralName != nil {
		link.ReferralName = req.ReferralName
	}
	if req.Status != nil {
		link.Status = *req.Status
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			link.ExpiryDate = nil
		} else {
			parsed, err := time.Parse(time.RFC3339, *req.ExpiryDate)
			if err != nil {
				return nil, NewBusinessError("VALIDATION_ERROR", "expiry_date must be RFC3339", err)
			}
			link.ExpiryDate = &parsed
		}
	}
	if req.Conversions != nil {
		link.Conversions = *req.Conversions
	}
	if req.MetaSource != nil {
		link.MetaSource = req.MetaSource
	}
	if req.MetaCampaign != nil {
		link.MetaCampaign = req.MetaCampaign
	}
	if req.MetaNotes != nil {
		link.MetaNotes = req.MetaNotes
	}
	link.UpdatedAt = utils.UTCNow()

	if err := p.linkRepo.Update(ctx, link); err != nil {
		return nil, NewBusinessError("LINK_UPDATE_FAILED", "Failed to update product link", err)
	}

	out := toProductLinkDTO(*link)
	return &out, nil
}

// Delete removes a link; missing ids map to NotFound
func (p *ProductLinkFlowImpl) Delete(ctx context.Context, id uint) error {
	if _, err := p.findLink(ctx, id); err != nil {
		return err
	}
	if err := p.linkRepo.Delete(ctx, id); err != nil {
		return NewBusinessError("LINK_DELETE_FAILED", "Failed to delete product link", err)
	}
	return nil
}

// ListBanksForType lists the banks of the catalog backing a product type
func (p *ProductLinkFlowImpl) ListBanksForType(ctx context.Context, productType string) (*dto.LinkBanksResponse, error) {
	if !models.ValidCatalogType(productType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	banks, err := p.catalogRepo.DistinctBanks(ctx, productType)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Failed to list banks", err)
	}

	return &dto.LinkBanksResponse{ProductType: productType, Banks: banks}, nil
}

// ListProductsForTypeAndBank lists one bank's active products in the catalog
// backing a product type
func (p *ProductLinkFlowImpl) ListProductsForTypeAndBank(ctx context.Context, productType, bank string) (*dto.LinkProductsResponse, error) {
	if !models.ValidCatalogType(productType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown product type", ErrInvalidProductType)
	}

	rows, err := p.catalogRepo.ListActiveByBank(ctx, productType, bank)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Failed to list catalog products", err)
	}

	products := make([]dto.CatalogProductDTO, 0, len(rows))
	for _, row := range rows {
		products = append(products, toCatalogProductDTO(*row))
	}

	return &dto.LinkProductsResponse{ProductType: productType, Bank: bank, Products: products}, nil
}

func (p *ProductLinkFlowImpl) findLink(ctx context.Context, id uint) (*models.ProductLink, error) {
	link, err := p.linkRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LINK_FETCH_FAILED", "Failed to fetch product link", err)
	}
	if link == nil {
		return nil, NewBusinessError("NOT_FOUND", "Product link not found", ErrLinkNotFound)
	}
	return link, nil
}

// generateLinkCode builds a "PL_" prefixed code from a random base36 fragment
// and the base36 creation instant. The unique index on unique_code backstops
// the negligible collision odds.
func generateLinkCode(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(36*36*36*36*36*36))
	if err != nil {
		return "", fmt.Errorf("failed to generate random fragment: %w", err)
	}

	fragment := strings.ToUpper(strconv.FormatInt(n.Int64(), 36))
	instant := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return utils.ProductLinkCodePrefix + fragment + instant, nil
}

func toProductLinkDTO(link models.ProductLink) dto.ProductLinkDTO {
	out := dto.ProductLinkDTO{
		ID:           link.ID,
		UniqueCode:   link.UniqueCode,
		ReferralID:   link.ReferralID,
		ReferralName: link.ReferralName,
		ProductType:  link.ProductType,
		Bank:         link.Bank,
		ProductName:  link.ProductName,
		ProductID:    link.ProductID,
		ProductImage: link.ProductImage,
		ShareableURL: link.ShareableURL,
		Clicks:       link.Clicks,
		Conversions:  link.Conversions,
		Status:       link.Status,
		MetaSource:   link.MetaSource,
		MetaCampaign: link.MetaCampaign,
		MetaNotes:    link.MetaNotes,
		CreatedAt:    link.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    link.UpdatedAt.Format(time.RFC3339),
	}
	if link.LastClickedAt != nil {
		out.LastClickedAt = utils.ToPtr(link.LastClickedAt.Format(time.RFC3339))
	}
	if link.ExpiryDate != nil {
		out.ExpiryDate = utils.ToPtr(link.ExpiryDate.Format(time.RFC3339))
	}
	return out
}

func toProductLinkDTOs(rows []*models.ProductLink) []dto.ProductLinkDTO {
	out := make([]dto.ProductLinkDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProductLinkDTO(*row))
	}
	return out
}
