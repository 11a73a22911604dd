// Package businessflow contains the core business logic and use cases for product catalogs
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogFlow handles the three product catalogs through one parameterized
// store. Listings are served through an optional Redis read-cache that admin
// writes invalidate.
type CatalogFlow interface {
	Create(ctx context.Context, catalogType string, req *dto.CreateCatalogProductRequest) (*dto.CatalogProductDTO, error)
	ListAll(ctx context.Context, catalogType string) ([]dto.CatalogProductDTO, error)
	ListBanks(ctx context.Context, catalogType string) ([]string, error)
	ListByBank(ctx context.Context, catalogType, bank string) ([]dto.CatalogProductDTO, error)
	Get(ctx context.Context, catalogType string, productID int) (*dto.CatalogProductDTO, error)
	Update(ctx context.Context, catalogType string, productID int, req *dto.UpdateCatalogProductRequest) (*dto.CatalogProductDTO, error)
	Delete(ctx context.Context, catalogType string, productID int) error
}

// CatalogFlowImpl implements the catalog business flow
type CatalogFlowImpl struct {
	catalogRepo repository.CatalogProductRepository
	rc          *redis.Client
	db          *gorm.DB
}

// NewCatalogFlow creates a new catalog flow instance. rc may be nil when
// caching is disabled.
func NewCatalogFlow(catalogRepo repository.CatalogProductRepository, rc *redis.Client, db *gorm.DB) CatalogFlow {
	return &CatalogFlowImpl{
		catalogRepo: catalogRepo,
		rc:          rc,
		db:          db,
	}
}

// Create adds a product to a catalog. ProductID must be unique within the catalog.
func (c *CatalogFlowImpl) Create(ctx context.Context, catalogType string, req *dto.CreateCatalogProductRequest) (*dto.CatalogProductDTO, error) {
	if !models.ValidCatalogType(catalogType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown catalog", ErrInvalidProductType)
	}

	existing, err := c.catalogRepo.ByCatalogAndProductID(ctx, catalogType, req.ProductID)
	if err != nil {
		return nil, NewBusinessError("CATALOG_CREATE_FAILED", "Failed to create catalog product", err)
	}
	if existing != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Product id already exists in catalog", ErrProductIDTaken)
	}

	features, err := marshalFeatures(req.Features)
	if err != nil {
		return nil, NewBusinessError("CATALOG_CREATE_FAILED", "Failed to encode features", err)
	}

	isActive := utils.ToPtr(true)
	if req.IsActive != nil {
		isActive = req.IsActive
	}

	product := &models.CatalogProduct{
		CatalogType:  catalogType,
		ProductID:    req.ProductID,
		Bank:         req.Bank,
		BankLogo:     req.BankLogo,
		Name:         req.Name,
		Image:        req.Image,
		Features:     features,
		Color:        req.Color,
		Description:  req.Description,
		MinAmount:    req.MinAmount,
		MaxAmount:    req.MaxAmount,
		InterestRate: req.InterestRate,
		Tenure:       req.Tenure,
		IsActive:     isActive,
	}

	if err := c.catalogRepo.Save(ctx, product); err != nil {
		return nil, NewBusinessError("CATALOG_CREATE_FAILED", "Failed to create catalog product", err)
	}

	c.invalidateCache(ctx, catalogType)

	out := toCatalogProductDTO(*product)
	return &out, nil
}

// ListAll returns the active products of a catalog
func (c *CatalogFlowImpl) ListAll(ctx context.Context, catalogType string) ([]dto.CatalogProductDTO, error) {
	if !models.ValidCatalogType(catalogType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown catalog", ErrInvalidProductType)
	}

	cacheKey := fmt.Sprintf("catalog:%s:all", catalogType)
	if c.rc != nil {
		if bs, err := c.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var out []dto.CatalogProductDTO
			if err := json.Unmarshal(bs, &out); err == nil {
				return out, nil
			}
		}
	}

	rows, err := c.catalogRepo.ListActive(ctx, catalogType)
	if err != nil {
		return nil, NewBusinessError("CATALOG_LIST_FAILED", "Failed to list catalog products", err)
	}

	out := make([]dto.CatalogProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCatalogProductDTO(*row))
	}

	if c.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = c.rc.Set(ctx, cacheKey, bs, catalogCacheTTL).Err()
		}
	}

	return out, nil
}

// ListBanks returns the distinct banks of active products, sorted ascending
func (c *CatalogFlowImpl) ListBanks(ctx context.Context, catalogType string) ([]string, error) {
	if !models.ValidCatalogType(catalogType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown catalog", ErrInvalidProductType)
	}

	banks, err := c.catalogRepo.DistinctBanks(ctx, catalogType)
	if err != nil {
		return nil, NewBusinessError("CATALOG_LIST_FAILED", "Failed to list banks", err)
	}
	return banks, nil
}

// ListByBank returns the active products one bank offers in a catalog (exact match)
func (c *CatalogFlowImpl) ListByBank(ctx context.Context, catalogType, bank string) ([]dto.CatalogProductDTO, error) {
	if !models.ValidCatalogType(catalogType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown catalog", ErrInvalidProductType)
	}

	rows, err := c.catalogRepo.ListActiveByBank(ctx, catalogType, bank)
	if err != nil {
		return nil, NewBusinessError("CATALOG_LIST_FAILED", "Failed to list catalog products by bank", err)
	}

	out := make([]dto.CatalogProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCatalogProductDTO(*row))
	}
	return out, nil
}

// Get returns one catalog product by its catalog-scoped numeric product id
func (c *CatalogFlowImpl) Get(ctx context.Context, catalogType string, productID int) (*dto.CatalogProductDTO, error) {
	product, err := c.findInCatalog(ctx, catalogType, productID)
	if err != nil {
		return nil, err
	}

	out := toCatalogProductDTO(*product)
	return &out, nil
}

// Update applies a partial update to a catalog product
func (c *CatalogFlowImpl) Update(ctx context.Context, catalogType string, productID int, req *dto.UpdateCatalogProductRequest) (*dto.CatalogProductDTO, error) {
	product, err := c.findInCatalog(ctx, catalogType, productID)
	if err != nil {
		return nil, err
	}

	if req.Bank != nil {
		product.Bank = *req.Bank
	}
	if req.BankLogo != nil {
		product.BankLogo = req.BankLogo
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Image != nil {
		product.Image = req.Image
	}
	if req.Features != nil {
		features, err := marshalFeatures(req.Features)
		if err != nil {
			return nil, NewBusinessError("CATALOG_UPDATE_FAILED", "Failed to encode features", err)
		}
		product.Features = features
	}
	if req.Color != nil {
		product.Color = req.Color
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.MinAmount != nil {
		product.MinAmount = req.MinAmount
	}
	if req.MaxAmount != nil {
		product.MaxAmount = req.MaxAmount
	}
	if req.InterestRate != nil {
		product.InterestRate = req.InterestRate
	}
	if req.Tenure != nil {
		product.Tenure = req.Tenure
	}
	if req.IsActive != nil {
		product.IsActive = req.IsActive
	}
	product.UpdatedAt = utils.UTCNow()

	if err := c.catalogRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("CATALOG_UPDATE_FAILED", "Failed to update catalog product", err)
	}

	c.invalidateCache(ctx, catalogType)

	out := toCatalogProductDTO(*product)
	return &out, nil
}

// Delete removes a catalog product; missing product ids map to NotFound
func (c *CatalogFlowImpl) Delete(ctx context.Context, catalogType string, productID int) error {
	product, err := c.findInCatalog(ctx, catalogType, productID)
	if err != nil {
		return err
	}

	if err := c.catalogRepo.Delete(ctx, product.ID); err != nil {
		return NewBusinessError("CATALOG_DELETE_FAILED", "Failed to delete catalog product", err)
	}

	c.invalidateCache(ctx, catalogType)
	return nil
}

func (c *CatalogFlowImpl) findInCatalog(ctx context.Context, catalogType string, productID int) (*models.CatalogProduct, error) {
	if !models.ValidCatalogType(catalogType) {
		return nil, NewBusinessError("INVALID_PRODUCT_TYPE", "Unknown catalog", ErrInvalidProductType)
	}

	product, err := c.catalogRepo.ByCatalogAndProductID(ctx, catalogType, productID)
	if err != nil {
		return nil, NewBusinessError("CATALOG_FETCH_FAILED", "Failed to fetch catalog product", err)
	}
	if product == nil {
		return nil, NewBusinessError("NOT_FOUND", "Product not found", ErrProductNotFound)
	}
	return product, nil
}

func (c *CatalogFlowImpl) invalidateCache(ctx context.Context, catalogType string) {
	if c.rc == nil {
		return
	}
	_ = c.rc.Del(ctx, fmt.Sprintf("catalog:%s:all", catalogType)).Err()
}

func marshalFeatures(features []string) (json.RawMessage, error) {
	if features == nil {
		features = []string{}
	}
	return json.Marshal(features)
}

func toCatalogProductDTO(product models.CatalogProduct) dto.CatalogProductDTO {
	features := []string{}
	if len(product.Features) > 0 {
		_ = json.Unmarshal(product.Features, &features)
	}

	return dto.CatalogProductDTO{
		ID:           product.ID,
		CatalogType:  product.CatalogType,
		ProductID:    product.ProductID,
		Bank:         product.Bank,
		BankLogo:     product.BankLogo,
		Name:         product.Name,
		Image:        product.Image,
		Features:     features,
		Color:        product.Color,
		Description:  product.Description,
		MinAmount:    product.MinAmount,
		MaxAmount:    product.MaxAmount,
		InterestRate: product.InterestRate,
		Tenure:       product.Tenure,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    product.UpdatedAt.Format(time.RFC3339),
	}
}
