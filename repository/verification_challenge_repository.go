// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/acelion55/finonest/models"
	"gorm.io/gorm"
)

// VerificationChallengeRepositoryImpl implements VerificationChallengeRepository
type VerificationChallengeRepositoryImpl struct {
	*BaseRepository[models.VerificationChallenge, models.VerificationChallengeFilter]
}

func NewVerificationChallengeRepository(db *gorm.DB) VerificationChallengeRepository {
	return &VerificationChallengeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.VerificationChallenge, models.VerificationChallengeFilter](db),
	}
}

// LatestPending retrieves the newest pending unexpired challenge for a target
func (r *VerificationChallengeRepositoryImpl) LatestPending(ctx context.Context, userID uint, target string) (*models.VerificationChallenge, error) {
	status := models.ChallengeStatusPending
	active := true
	filter := models.VerificationChallengeFilter{
		UserID:   &userID,
		Target:   &target,
		Status:   &status,
		IsActive: &active,
	}

	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest pending challenge: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ExpireOldChallenges marks the user's pending challenges for a target as expired
func (r *VerificationChallengeRepositoryImpl) ExpireOldChallenges(ctx context.Context, userID uint, target string) error {
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

	err = db.Model(&models.VerificationChallenge{}).
		Where("user_id = ? AND target = ? AND status = ?", userID, target, models.ChallengeStatusPending).
		Update("status", models.ChallengeStatusExpired).Error
	if err != nil {
		return fmt.Errorf("failed to expire old challenges: %w", err)
	}

	return nil
}

// ExpireAllStale marks every pending challenge past its deadline as expired.
// Used by the background cleanup worker.
func (r *VerificationChallengeRepositoryImpl) ExpireAllStale(ctx context.Context) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
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

	res := db.Model(&models.VerificationChallenge{}).
		Where("status = ? AND expires_at <= ?", models.ChallengeStatusPending, time.Now()).
		Update("status", models.ChallengeStatusExpired)
	if res.Error != nil {
		err = fmt.Errorf("failed to expire stale challenges: %w", res.Error)
		return 0, err
	}

	return res.RowsAffected, nil
}

func (r *VerificationChallengeRepositoryImpl) applyFilter(db *gorm.DB, f models.VerificationChallengeFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *f.CorrelationID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Target != nil {
		db = db.Where("target = ?", *f.Target)
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
	if f.ExpiresAfter != nil {
		db = db.Where("expires_at >= ?", *f.ExpiresAfter)
	}
	if f.IsActive != nil && *f.IsActive {
		db = db.Where("expires_at > ?", time.Now())
	}
	return db
}

func (r *VerificationChallengeRepositoryImpl) ByFilter(ctx context.Context, filter models.VerificationChallengeFilter, orderBy string, limit, offset int) ([]*models.VerificationChallenge, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.VerificationChallenge{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.VerificationChallenge
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VerificationChallengeRepositoryImpl) Count(ctx context.Context, filter models.VerificationChallengeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.VerificationChallenge{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VerificationChallengeRepositoryImpl) Exists(ctx context.Context, filter models.VerificationChallengeFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
