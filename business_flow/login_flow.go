// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/app/services"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"gorm.io/gorm"
)

// LoginFlow handles user authentication with device-scoped session replacement
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates a user and replaces any prior session on the same
// device. Sessions on other devices are untouched. Unknown email and wrong
// password both map to the same generic error.
func (lf *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	if metadata == nil || metadata.DeviceID == "" {
		return nil, NewBusinessError("MISSING_DEVICE_ID", "Device id header is required", ErrMissingDeviceID)
	}

	email := utils.NormalizeEmail(req.Email)

	var user *models.User
	var session *models.UserSession
	var token string

	err := repository.WithTransaction(ctx, lf.db, func(txCtx context.Context) error {
		var err error
		user, err = lf.userRepo.ByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrInvalidCredentials
		}

		if !utils.IsTrue(user.IsActive) {
			return ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return ErrInvalidCredentials
		}

		// Lazy cleanup of sessions that expired on their own
		if err := lf.sessionRepo.DeleteExpiredByUser(txCtx, user.ID); err != nil {
			return err
		}

		// Same-device re-login replaces exactly this device's session
		if err := lf.sessionRepo.DeleteByUserAndDevice(txCtx, user.ID, metadata.DeviceID); err != nil {
			return err
		}

		token, session, err = createDeviceSession(txCtx, lf.sessionRepo, lf.tokenService, user.ID, metadata)
		if err != nil {
			return err
		}

		return lf.userRepo.UpdateLastLogin(txCtx, user.ID, utils.UTCNow())
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		var userID *uint
		if user != nil {
			userID = &user.ID
		}
		_ = createAuditLog(ctx, lf.auditRepo, userID, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		if IsInvalidCredentials(err) {
			return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", err)
		}
		if IsAccountInactive(err) {
			return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", err)
		}
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Login successful: %d", user.ID)
	_ = createAuditLog(ctx, lf.auditRepo, &user.ID, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return &dto.AuthResponse{
		Token:   token,
		User:    ToUserDTO(*user),
		Session: ToSessionDTO(*session),
	}, nil
}
