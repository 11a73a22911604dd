// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/acelion55/finonest/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByAadhaar(ctx context.Context, aadhaar string) (*models.User, error)
	ByPAN(ctx context.Context, pan string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// UserSessionRepository defines operations for device-scoped sessions
type UserSessionRepository interface {
	Repository[models.UserSession, models.UserSessionFilter]
	ByToken(ctx context.Context, token string) (*models.UserSession, error)
	ActiveSession(ctx context.Context, userID uint, deviceID, token string) (*models.UserSession, error)
	DeleteByUserAndDevice(ctx context.Context, userID uint, deviceID string) error
	DeleteExpiredByUser(ctx context.Context, userID uint) error
	DeleteAllExpired(ctx context.Context) (int64, error)
}

// VerificationChallengeRepository defines operations for KYC challenges
type VerificationChallengeRepository interface {
	Repository[models.VerificationChallenge, models.VerificationChallengeFilter]
	LatestPending(ctx context.Context, userID uint, target string) (*models.VerificationChallenge, error)
	ExpireOldChallenges(ctx context.Context, userID uint, target string) error
	ExpireAllStale(ctx context.Context) (int64, error)
}

// LeadApplicationRepository defines operations for lead applications
type LeadApplicationRepository interface {
	Repository[models.LeadApplication, models.LeadApplicationFilter]
	ListByType(ctx context.Context, productType string, limit, offset int) ([]*models.LeadApplication, error)
	ListByTypeAndUser(ctx context.Context, productType string, userID uint) ([]*models.LeadApplication, error)
}

// CatalogProductRepository defines operations for catalog products
type CatalogProductRepository interface {
	Repository[models.CatalogProduct, models.CatalogProductFilter]
	ByCatalogAndProductID(ctx context.Context, catalogType string, productID int) (*models.CatalogProduct, error)
	ListActive(ctx context.Context, catalogType string) ([]*models.CatalogProduct, error)
	ListActiveByBank(ctx context.Context, catalogType, bank string) ([]*models.CatalogProduct, error)
	DistinctBanks(ctx context.Context, catalogType string) ([]string, error)
}

// ProductLinkRepository defines operations for referral product links
type ProductLinkRepository interface {
	Repository[models.ProductLink, models.ProductLinkFilter]
	ByUniqueCode(ctx context.Context, code string) (*models.ProductLink, error)
	ListByReferral(ctx context.Context, referralID string) ([]*models.ProductLink, error)
	RecordClick(ctx context.Context, id uint, at time.Time) error
}

// PayoutRepository defines operations for the payout ledger
type PayoutRepository interface {
	Repository[models.Payout, models.PayoutFilter]
	ListNewestFirst(ctx context.Context, limit, offset int) ([]*models.Payout, error)
	ListByReferral(ctx context.Context, referralID string) ([]*models.Payout, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
