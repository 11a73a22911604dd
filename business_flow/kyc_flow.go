// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/acelion55/finonest/app/dto"
	"github.com/acelion55/finonest/models"
	"github.com/acelion55/finonest/repository"
	"github.com/acelion55/finonest/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KYCFlow handles server-issued verification challenges for KYC targets.
// The server holds the code; the client only ever submits an answer.
type KYCFlow interface {
	IssueChallenge(ctx context.Context, userID uint, req *dto.IssueChallengeRequest, metadata *ClientMetadata) (*dto.IssueChallengeResponse, error)
	VerifyChallenge(ctx context.Context, userID uint, req *dto.VerifyChallengeRequest, metadata *ClientMetadata) (*dto.VerifyChallengeResponse, error)
}

// KYCFlowImpl implements the KYC challenge business flow
type KYCFlowImpl struct {
	userRepo      repository.UserRepository
	challengeRepo repository.VerificationChallengeRepository
	auditRepo     repository.AuditLogRepository
	db            *gorm.DB
}

// NewKYCFlow creates a new KYC flow instance
func NewKYCFlow(
	userRepo repository.UserRepository,
	challengeRepo repository.VerificationChallengeRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) KYCFlow {
	return &KYCFlowImpl{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		auditRepo:     auditRepo,
		db:            db,
	}
}

// IssueChallenge creates a fresh challenge for one KYC target, expiring any
// pending challenge for the same target first.
func (k *KYCFlowImpl) IssueChallenge(ctx context.Context, userID uint, req *dto.IssueChallengeRequest, metadata *ClientMetadata) (*dto.IssueChallengeResponse, error) {
	if !models.ValidChallengeTarget(req.Target) {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid verification target", ErrInvalidTarget)
	}

	var challenge *models.VerificationChallenge

	err := repository.WithTransaction(ctx, k.db, func(txCtx context.Context) error {
		user, err := k.userRepo.ByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := k.validateTargetState(user, req.Target); err != nil {
			return err
		}

		if err := k.challengeRepo.ExpireOldChallenges(txCtx, userID, req.Target); err != nil {
			return err
		}

		code, err := GenerateChallengeCode()
		if err != nil {
			return err
		}

		challenge = &models.VerificationChallenge{
			CorrelationID: uuid.New(),
			UserID:        userID,
			Target:        req.Target,
			Code:          code,
			Status:        models.ChallengeStatusPending,
			AttemptsCount: 0,
			MaxAttempts:   utils.KYCChallengeMaxAttempts,
			ExpiresAt:     time.Now().Add(utils.KYCChallengeExpiry),
		}

		return k.challengeRepo.Save(txCtx, challenge)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Challenge issue failed: %s", err.Error())
		_ = createAuditLog(ctx, k.auditRepo, &userID, models.AuditActionKYCChallengeFailed, errMsg, false, &errMsg, metadata)

		switch {
		case IsUserNotFound(err):
			return nil, NewBusinessError("NOT_FOUND", "User not found", err)
		case err == ErrTargetNotSet:
			return nil, NewBusinessError("VALIDATION_ERROR", "Target field is not set on the profile", err)
		case err == ErrAlreadyVerified:
			return nil, NewBusinessError("VALIDATION_ERROR", "Target is already verified", err)
		}
		return nil, NewBusinessError("CHALLENGE_ISSUE_FAILED", "Failed to issue challenge", err)
	}

	msg := fmt.Sprintf("Challenge issued for %s: user %d", req.Target, userID)
	_ = createAuditLog(ctx, k.auditRepo, &userID, models.AuditActionKYCChallengeIssued, msg, true, nil, metadata)

	return &dto.IssueChallengeResponse{
		ChallengeID: challenge.CorrelationID.String(),
		Target:      challenge.Target,
		ExpiresIn:   utils.KYCChallengeExpirySeconds,
	}, nil
}

// VerifyChallenge checks the submitted code against the pending challenge.
// Success flips the target's verified flag; when all targets are verified
// the profile's kyc status becomes verified.
func (k *KYCFlowImpl) VerifyChallenge(ctx context.Context, userID uint, req *dto.VerifyChallengeRequest, metadata *ClientMetadata) (*dto.VerifyChallengeResponse, error) {
	if !models.ValidChallengeTarget(req.Target) {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid verification target", ErrInvalidTarget)
	}

	var user *models.User

	err := repository.WithTransaction(ctx, k.db, func(txCtx context.Context) error {
		var err error
		user, err = k.userRepo.ByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		challenge, err := k.challengeRepo.LatestPending(txCtx, userID, req.Target)
		if err != nil {
			return err
		}
		if challenge == nil {
			return ErrNoValidChallenge
		}
		if !challenge.CanAttempt() {
			if challenge.IsExpired() {
				return ErrChallengeExpired
			}
			return ErrTooManyAttempts
		}

		if challenge.Code != req.Code {
			challenge.AttemptsCount++
			if challenge.AttemptsCount >= challenge.MaxAttempts {
				challenge.Status = models.ChallengeStatusFailed
			}
			if uerr := k.challengeRepo.Update(txCtx, challenge); uerr != nil {
				return uerr
			}
			return ErrInvalidCode
		}

		challenge.Status = models.ChallengeStatusVerified
		challenge.VerifiedAt = utils.UTCNowPtr()
		if err := k.challengeRepo.Update(txCtx, challenge); err != nil {
			return err
		}

		k.markVerified(user, req.Target)
		if user.AllTargetsVerified() {
			user.KYCStatus = models.KYCStatusVerified
		}
		user.UpdatedAt = utils.UTCNow()

		return k.userRepo.Update(txCtx, user)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Challenge verification failed: %s", err.Error())
		_ = createAuditLog(ctx, k.auditRepo, &userID, models.AuditActionKYCChallengeFailed, errMsg, false, &errMsg, metadata)

		switch err {
		case ErrUserNotFound:
			return nil, NewBusinessError("NOT_FOUND", "User not found", err)
		case ErrNoValidChallenge, ErrChallengeExpired, ErrTooManyAttempts, ErrInvalidCode:
			return nil, NewBusinessError("VALIDATION_ERROR", "Verification failed", err)
		}
		return nil, NewBusinessError("CHALLENGE_VERIFY_FAILED", "Failed to verify challenge", err)
	}

	msg := fmt.Sprintf("Challenge verified for %s: user %d", req.Target, userID)
	_ = createAuditLog(ctx, k.auditRepo, &userID, models.AuditActionKYCChallengeVerified, msg, true, nil, metadata)

	return &dto.VerifyChallengeResponse{
		Target:    req.Target,
		Verified:  true,
		KYCStatus: user.KYCStatus,
		User:      ToUserDTO(*user),
	}, nil
}

// validateTargetState requires the target field to be present and not yet verified
func (k *KYCFlowImpl) validateTargetState(user *models.User, target string) error {
	switch target {
	case models.ChallengeTargetAadhaar:
		if user.Aadhaar == nil || *user.Aadhaar == "" {
			return ErrTargetNotSet
		}
		if utils.IsTrue(user.AadhaarVerified) {
			return ErrAlreadyVerified
		}
	case models.ChallengeTargetPAN:
		if user.PAN == nil || *user.PAN == "" {
			return ErrTargetNotSet
		}
		if utils.IsTrue(user.PANVerified) {
			return ErrAlreadyVerified
		}
	case models.ChallengeTargetBank:
		if user.BankAccountNumber == nil || *user.BankAccountNumber == "" {
			return ErrTargetNotSet
		}
		if utils.IsTrue(user.BankVerified) {
			return ErrAlreadyVerified
		}
	}
	return nil
}

func (k *KYCFlowImpl) markVerified(user *models.User, target string) {
	switch target {
	case models.ChallengeTargetAadhaar:
		user.AadhaarVerified = utils.ToPtr(true)
	case models.ChallengeTargetPAN:
		user.PANVerified = utils.ToPtr(true)
	case models.ChallengeTargetBank:
		user.BankVerified = utils.ToPtr(true)
	}
}

// GenerateChallengeCode returns a secure 6-digit code
func GenerateChallengeCode() (string, error) {
	max := big.NewInt(999999)
	min := big.NewInt(100000)

	n, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", new(big.Int).Add(n, min).Int64()), nil
}
