// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"gorm.io/gorm"
)

// ProfileFlow handles reading and updating the authenticated user's profile
type ProfileFlow interface {
	Me(ctx context.Context, userID uint) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.UserDTO, error)
}

// ProfileFlowImpl implements the profile business flow
type ProfileFlowImpl struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

// NewProfileFlow creates a new profile flow instance
func NewProfileFlow(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) ProfileFlow {
	return &ProfileFlowImpl{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

// Me returns the authenticated user's profile
func (p *ProfileFlowImpl) Me(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	user, err := p.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("PROFILE_FETCH_FAILED", "Failed to fetch profile", err)
	}
	if user == nil {
		return nil, NewBusinessError("NOT_FOUND", "User not found", ErrUserNotFound)
	}

	out := ToUserDTO(*user)
	return &out, nil
}

// UpdateProfile applies a partial profile/KYC update. Aadhaar and PAN
// uniqueness is enforced when the incoming value is non-empty. Changing a
// KYC field resets its verified flag; the value must be re-verified.
func (p *ProfileFlowImpl) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest, metadata *ClientMetadata) (*dto.UserDTO, error) {
	var user *models.User

	err := repository.WithTransaction(ctx, p.db, func(txCtx context.Context) error {
		var err error
		user, err = p.userRepo.ByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if req.Aadhaar != nil && *req.Aadhaar != "" {
			existing, err := p.userRepo.ByAadhaar(txCtx, *req.Aadhaar)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != userID {
				return ErrAadhaarExists
			}
		}

		if req.PAN != nil && *req.PAN != "" {
			existing, err := p.userRepo.ByPAN(txCtx, *req.PAN)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != userID {
				return ErrPANExists
			}
		}

		p.applyUpdate(user, req)
		user.UpdatedAt = utils.UTCNow()

		return p.userRepo.Update(txCtx, user)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Profile update failed: %s", err.Error())
		_ = createAuditLog(ctx, p.auditRepo, &userID, models.AuditActionProfileUpdated, errMsg, false, &errMsg, metadata)

		switch {
		case IsAadhaarExists(err):
			return nil, NewBusinessError("AADHAAR_EXISTS", "Aadhaar is already registered", err)
		case IsPANExists(err):
			return nil, NewBusinessError("PAN_EXISTS", "PAN is already registered", err)
		case IsUserNotFound(err):
			return nil, NewBusinessError("NOT_FOUND", "User not found", err)
		}
		return nil, NewBusinessError("PROFILE_UPDATE_FAILED", "Profile update failed", err)
	}

	msg := fmt.Sprintf("Profile updated: %d", userID)
	_ = createAuditLog(ctx, p.auditRepo, &userID, models.AuditActionProfileUpdated, msg, true, nil, metadata)

	out := ToUserDTO(*user)
	return &out, nil
}

func (p *ProfileFlowImpl) applyUpdate(user *models.User, req *dto.UpdateProfileRequest) {
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Aadhaar != nil && (user.Aadhaar == nil || *user.Aadhaar != *req.Aadhaar) {
		user.Aadhaar = req.Aadhaar
		user.AadhaarVerified = utils.ToPtr(false)
		user.KYCStatus = models.KYCStatusPending
	}
	if req.PAN != nil && (user.PAN == nil || *user.PAN != *req.PAN) {
		user.PAN = req.PAN
		user.PANVerified = utils.ToPtr(false)
		user.KYCStatus = models.KYCStatusPending
	}

	bankChanged := false
	if req.BankAccountNumber != nil {
		user.BankAccountNumber = req.BankAccountNumber
		bankChanged = true
	}
	if req.BankIFSC != nil {
		user.BankIFSC = req.BankIFSC
		bankChanged = true
	}
	if req.BankName != nil {
		user.BankName = req.BankName
	}
	if req.AccountHolderName != nil {
		user.AccountHolderName = req.AccountHolderName
	}
	if bankChanged {
		user.BankVerified = utils.ToPtr(false)
		user.KYCStatus = models.KYCStatusPending
	}
}
