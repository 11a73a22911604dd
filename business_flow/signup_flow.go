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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupFlow handles account creation with an immediate device session
type SignupFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.UserSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Signup creates the account and a session bound to the presenting device
func (s *SignupFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	if metadata == nil || metadata.DeviceID == "" {
		return nil, NewBusinessError("MISSING_DEVICE_ID", "Device id header is required", ErrMissingDeviceID)
	}

	email := utils.NormalizeEmail(req.Email)

	if err := s.validateSignupRequest(ctx, email); err != nil {
		if IsEmailAlreadyExists(err) {
			return nil, NewBusinessError("EMAIL_EXISTS", "Email is already registered", err)
		}
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	var user *models.User
	var session *models.UserSession
	var token string

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		user, err = s.createUser(txCtx, req, email)
		if err != nil {
			return err
		}

		token, session, err = createDeviceSession(txCtx, s.sessionRepo, s.tokenService, user.ID, metadata)
		return err
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed: %s", err.Error())
		_ = createAuditLog(ctx, s.auditRepo, nil, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	msg := fmt.Sprintf("Signup completed successfully: %d", user.ID)
	_ = createAuditLog(ctx, s.auditRepo, &user.ID, models.AuditActionSignupCompleted, msg, true, nil, metadata)

	return &dto.AuthResponse{
		Token:   token,
		User:    ToUserDTO(*user),
		Session: ToSessionDTO(*session),
	}, nil
}

func (s *SignupFlowImpl) validateSignupRequest(ctx context.Context, email string) error {
	existing, err := s.userRepo.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *SignupFlowImpl) createUser(ctx context.Context, req *dto.SignupRequest, email string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UUID:            uuid.New(),
		Email:           email,
		PasswordHash:    string(hashedPassword),
		FullName:        req.FullName,
		Phone:           req.Phone,
		KYCStatus:       models.KYCStatusPending,
		AadhaarVerified: utils.ToPtr(false),
		PANVerified:     utils.ToPtr(false),
		BankVerified:    utils.ToPtr(false),
		IsActive:        utils.ToPtr(true),
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// createDeviceSession issues a token for the device and stores the matching
// session row. Shared by signup and login.
func createDeviceSession(ctx context.Context, sessionRepo repository.UserSessionRepository, tokenService services.TokenService, userID uint, metadata *ClientMetadata) (string, *models.UserSession, error) {
	token, expiresAt, err := tokenService.IssueToken(userID, metadata.DeviceID)
	if err != nil {
		return "", nil, err
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.UserSession{
		CorrelationID: uuid.New(),
		UserID:        userID,
		DeviceID:      metadata.DeviceID,
		SessionToken:  token,
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
		ExpiresAt:     expiresAt,
	}

	if err := sessionRepo.Save(ctx, session); err != nil {
		return "", nil, err
	}

	return token, session, nil
}
