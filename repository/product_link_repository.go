// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acelion55/finonest/models"
	"gorm.io/gorm"
)

// ProductLinkRepositoryImpl implements ProductLinkRepository
type ProductLinkRepositoryImpl struct {
	*BaseRepository[models.ProductLink, models.ProductLinkFilter]
}

func NewProductLinkRepository(db *gorm.DB) ProductLinkRepository {
	return &ProductLinkRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ProductLink, models.ProductLinkFilter](db),
	}
}

// ByUniqueCode retrieves a link by its share code
func (r *ProductLinkRepositoryImpl) ByUniqueCode(ctx context.Context, code string) (*models.ProductLink, error) {
	db := r.getDB(ctx)

	var link models.ProductLink
	err := db.Where("unique_code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product link by code: %w", err)
	}

	return &link, nil
}

// ListByReferral retrieves all links attributed to a referral id, newest first
func (r *ProductLinkRepositoryImpl) ListByReferral(ctx context.Context, referralID string) ([]*models.ProductLink, error) {
	filter := models.ProductLinkFilter{ReferralID: &referralID}
	rows, err := r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list product links by referral: %w", err)
	}
	return rows, nil
}

// RecordClick increments the click counter in a single UPDATE so concurrent
// resolutions never lose increments, and stamps the resolution time.
func (r *ProductLinkRepositoryImpl) RecordClick(ctx context.Context, id uint, at time.Time) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.ProductLink{}).Where("id = ?", id).
		Updates(map[string]any{
			"clicks":          gorm.Expr("clicks + 1"),
			"last_clicked_at": at,
			"updated_at":      at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *ProductLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.ProductLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UniqueCode != nil {
		db = db.Where("unique_code = ?", *f.UniqueCode)
	}
	if f.ReferralID != nil {
		db = db.Where("referral_id = ?", *f.ReferralID)
	}
	if f.ProductType != nil {
		db = db.Where("product_type = ?", *f.ProductType)
	}
	if f.Bank != nil {
		db = db.Where("bank = ?", *f.Bank)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ProductLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductLinkFilter, orderBy string, limit, offset int) ([]*models.ProductLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProductLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ProductLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProductLinkRepositoryImpl) Count(ctx context.Context, filter models.ProductLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProductLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProductLinkRepositoryImpl) Exists(ctx context.Context, filter models.ProductLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
