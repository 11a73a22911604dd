// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/acelion55/finonest/models"
	"gorm.io/gorm"
)

// LeadApplicationRepositoryImpl implements LeadApplicationRepository
type LeadApplicationRepositoryImpl struct {
	*BaseRepository[models.LeadApplication, models.LeadApplicationFilter]
}

func NewLeadApplicationRepository(db *gorm.DB) LeadApplicationRepository {
	return &LeadApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.LeadApplication, models.LeadApplicationFilter](db),
	}
}

// ListByType retrieves applications of one product line, newest first
func (r *LeadApplicationRepositoryImpl) ListByType(ctx context.Context, productType string, limit, offset int) ([]*models.LeadApplication, error) {
	filter := models.LeadApplicationFilter{ProductType: &productType}
	rows, err := r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by type: %w", err)
	}
	return rows, nil
}

// ListByTypeAndUser retrieves one user's applications of one product line, newest first
func (r *LeadApplicationRepositoryImpl) ListByTypeAndUser(ctx context.Context, productType string, userID uint) ([]*models.LeadApplication, error) {
	filter := models.LeadApplicationFilter{ProductType: &productType, UserID: &userID}
	rows, err := r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by type and user: %w", err)
	}
	return rows, nil
}

func (r *LeadApplicationRepositoryImpl) applyFilter(db *gorm.DB, f models.LeadApplicationFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ProductType != nil {
		db = db.Where("product_type = ?", *f.ProductType)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.MobileNumber != nil {
		db = db.Where("mobile_number = ?", *f.MobileNumber)
	}
	if f.ProductID != nil {
		db = db.Where("product_id = ?", *f.ProductID)
	}
	if f.Bank != nil {
		db = db.Where("bank = ?", *f.Bank)
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

func (r *LeadApplicationRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadApplicationFilter, orderBy string, limit, offset int) ([]*models.LeadApplication, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LeadApplication{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.LeadApplication
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LeadApplicationRepositoryImpl) Count(ctx context.Context, filter models.LeadApplicationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LeadApplication{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LeadApplicationRepositoryImpl) Exists(ctx context.Context, filter models.LeadApplicationFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
