// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/acelion55/finonest/models"
	"gorm.io/gorm"
)

// CatalogProductRepositoryImpl implements CatalogProductRepository
type CatalogProductRepositoryImpl struct {
	*BaseRepository[models.CatalogProduct, models.CatalogProductFilter]
}

func NewCatalogProductRepository(db *gorm.DB) CatalogProductRepository {
	return &CatalogProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CatalogProduct, models.CatalogProductFilter](db),
	}
}

// ByCatalogAndProductID retrieves a product by its operator-assigned id within a catalog
func (r *CatalogProductRepositoryImpl) ByCatalogAndProductID(ctx context.Context, catalogType string, productID int) (*models.CatalogProduct, error) {
	db := r.getDB(ctx)

	var product models.CatalogProduct
	err := db.Where("catalog_type = ? AND product_id = ?", catalogType, productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find catalog product: %w", err)
	}

	return &product, nil
}

// ListActive retrieves all active products of a catalog
func (r *CatalogProductRepositoryImpl) ListActive(ctx context.Context, catalogType string) ([]*models.CatalogProduct, error) {
	active := true
	filter := models.CatalogProductFilter{CatalogType: &catalogType, IsActive: &active}
	rows, err := r.ByFilter(ctx, filter, "product_id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active catalog products: %w", err)
	}
	return rows, nil
}

// ListActiveByBank retrieves active products of a catalog issued by one bank (exact match)
func (r *CatalogProductRepositoryImpl) ListActiveByBank(ctx context.Context, catalogType, bank string) ([]*models.CatalogProduct, error) {
	active := true
	filter := models.CatalogProductFilter{CatalogType: &catalogType, Bank: &bank, IsActive: &active}
	rows, err := r.ByFilter(ctx, filter, "product_id ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog products by bank: %w", err)
	}
	return rows, nil
}

// DistinctBanks retrieves the distinct banks of active products, sorted ascending
func (r *CatalogProductRepositoryImpl) DistinctBanks(ctx context.Context, catalogType string) ([]string, error) {
	db := r.getDB(ctx)

	var banks []string
	err := db.Model(&models.CatalogProduct{}).
		Where("catalog_type = ? AND is_active = ?", catalogType, true).
		Distinct("bank").
		Order("bank ASC").
		Pluck("bank", &banks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct banks: %w", err)
	}

	return banks, nil
}

func (r *CatalogProductRepositoryImpl) applyFilter(db *gorm.DB, f models.CatalogProductFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CatalogType != nil {
		db = db.Where("catalog_type = ?", *f.CatalogType)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.Bank != nil {
		db = db.Where("bank = ?", *f.Bank)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	return db
}

func (r *CatalogProductRepositoryImpl) ByFilter(ctx context.Context, filter models.CatalogProductFilter, orderBy string, limit, offset int) ([]*models.CatalogProduct, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CatalogProduct{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.CatalogProduct
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogProductRepositoryImpl) Count(ctx context.Context, filter models.CatalogProductFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CatalogProduct{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CatalogProductRepositoryImpl) Exists(ctx context.Context, filter models.CatalogProductFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
