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

// UserSessionRepositoryImpl implements UserSessionRepository
type UserSessionRepositoryImpl struct {
	*BaseRepository[models.UserSession, models.UserSessionFilter]
}

func NewUserSessionRepository(db *gorm.DB) UserSessionRepository {
	return &UserSessionRepositoryImpl{BaseRepository: NewBaseRepository[models.UserSession, models.UserSessionFilter](db)}
}

// ByToken retrieves an unexpired session by its token
func (r *UserSessionRepositoryImpl) ByToken(ctx context.Context, token string) (*models.UserSession, error) {
	db := r.getDB(ctx)

	var session models.UserSession
	err := db.Where("session_token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// ActiveSession retrieves the unexpired session matching user, device and token.
// All three must match for the bearer to be accepted.
func (r *UserSessionRepositoryImpl) ActiveSession(ctx context.Context, userID uint, deviceID, token string) (*models.UserSession, error) {
	db := r.getDB(ctx)

	var session models.UserSession
	err := db.Where("user_id = ? AND device_id = ? AND session_token = ? AND expires_at > ?",
		userID, deviceID, token, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}

	return &session, nil
}

// DeleteByUserAndDevice removes every session the user holds on the device.
// Called before inserting the replacement session on login.
func (r *UserSessionRepositoryImpl) DeleteByUserAndDevice(ctx context.Context, userID uint, deviceID string) error {
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

	err = db.Where("user_id = ? AND device_id = ?", userID, deviceID).
		Delete(&models.UserSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete sessions for device: %w", err)
	}

	return nil
}

// DeleteExpiredByUser lazily purges the user's expired sessions
func (r *UserSessionRepositoryImpl) DeleteExpiredByUser(ctx context.Context, userID uint) error {
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

	err = db.Where("user_id = ? AND expires_at <= ?", userID, time.Now()).
		Delete(&models.UserSession{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return nil
}

// DeleteAllExpired purges every expired session across all users. Used by the
// background cleanup worker.
func (r *UserSessionRepositoryImpl) DeleteAllExpired(ctx context.Context) (int64, error) {
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

	res := db.Where("expires_at <= ?", time.Now()).Delete(&models.UserSession{})
	if res.Error != nil {
		err = fmt.Errorf("failed to delete expired sessions: %w", res.Error)
		return 0, err
	}

	return res.RowsAffected, nil
}

func (r *UserSessionRepositoryImpl) applyFilter(db *gorm.DB, f models.UserSessionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *f.CorrelationID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.DeviceID != nil {
		db = db.Where("device_id = ?", *f.DeviceID)
	}
	if f.SessionToken != nil {
		db = db.Where("session_token = ?", *f.SessionToken)
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
	if f.ExpiresBefore != nil {
		db = db.Where("expires_at < ?", *f.ExpiresBefore)
	}
	if f.IsExpired != nil {
		if *f.IsExpired {
			db = db.Where("expires_at <= ?", time.Now())
		} else {
			db = db.Where("expires_at > ?", time.Now())
		}
	}
	return db
}

func (r *UserSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.UserSessionFilter, orderBy string, limit, offset int) ([]*models.UserSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserSession{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UserSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserSessionRepositoryImpl) Count(ctx context.Context, filter models.UserSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserSession{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserSessionRepositoryImpl) Exists(ctx context.Context, filter models.UserSessionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
