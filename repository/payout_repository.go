// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/acelion55/finonest/models"
	"gorm.io/gorm"
)

// PayoutRepositoryImpl implements PayoutRepository
type PayoutRepositoryImpl struct {
	*BaseRepository[models.Payout, models.PayoutFilter]
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &PayoutRepositoryImpl{BaseRepository: NewBaseRepository[models.Payout, models.PayoutFilter](db)}
}

// ListNewestFirst retrieves ledger entries ordered by creation time descending
func (r *PayoutRepositoryImpl) ListNewestFirst(ctx context.Context, limit, offset int) ([]*models.Payout, error) {
	rows, err := r.ByFilter(ctx, models.PayoutFilter{}, "created_at DESC", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	return rows, nil
}

// ListByReferral retrieves ledger entries for one referral id, newest first
func (r *PayoutRepositoryImpl) ListByReferral(ctx context.Context, referralID string) ([]*models.Payout, error) {
	filter := models.PayoutFilter{ReferralID: &referralID}
	rows, err := r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list payouts by referral: %w", err)
	}
	return rows, nil
}

func (r *PayoutRepositoryImpl) applyFilter(db *gorm.DB, f models.PayoutFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ReferralID != nil {
		db = db.Where("referral_id = ?", *f.ReferralID)
	}
	if f.LeadID != nil {
		db = db.Where("lead_id = ?", *f.LeadID)
	}
	if f.LeadStatus != nil {
		db = db.Where("lead_status = ?", *f.LeadStatus)
	}
	if f.PayoutStatus != nil {
		db = db.Where("payout_status = ?", *f.PayoutStatus)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *PayoutRepositoryImpl) ByFilter(ctx context.Context, filter models.PayoutFilter, orderBy string, limit, offset int) ([]*models.Payout, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Payout{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Payout
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PayoutRepositoryImpl) Count(ctx context.Context, filter models.PayoutFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Payout{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PayoutRepositoryImpl) Exists(ctx context.Context, filter models.PayoutFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
