// Package businessflow contains the core business logic and use cases for the lending marketplace
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAadhaarExists      = errors.New("aadhaar already registered")
	ErrPANExists          = errors.New("pan already registered")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrDeviceMismatch  = errors.New("token was issued for a different device")
	ErrMissingDeviceID = errors.New("device id header is required")

	// KYC challenge errors
	ErrNoValidChallenge = errors.New("no valid challenge found")
	ErrInvalidCode      = errors.New("invalid verification code")
	ErrInvalidTarget    = errors.New("invalid verification target")
	ErrChallengeExpired = errors.New("challenge has expired")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrTargetNotSet     = errors.New("target field is empty on the profile")
	ErrAlreadyVerified  = errors.New("already verified")

	// Application errors
	ErrApplicationNotFound  = errors.New("application not found")
	ErrAgreementRequired    = errors.New("terms must be agreed to")
	ErrInvalidProductType   = errors.New("invalid product type")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidCarType       = errors.New("invalid car type")
	ErrMissingRequiredField = errors.New("required field is missing")

	// Catalog errors
	ErrProductNotFound = errors.New("product not found")
	ErrProductIDTaken  = errors.New("product id already exists in catalog")

	// Product link errors
	ErrLinkNotFound = errors.New("product link not found")

	// Payout errors
	ErrPayoutNotFound = errors.New("payout not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsAadhaarExists(err error) bool {
	return errors.Is(err, ErrAadhaarExists)
}

func IsPANExists(err error) bool {
	return errors.Is(err, ErrPANExists)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsMissingDeviceID(err error) bool {
	return errors.Is(err, ErrMissingDeviceID)
}

func IsNoValidChallenge(err error) bool {
	return errors.Is(err, ErrNoValidChallenge)
}

func IsInvalidCode(err error) bool {
	return errors.Is(err, ErrInvalidCode)
}

func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidTarget)
}

func IsChallengeExpired(err error) bool {
	return errors.Is(err, ErrChallengeExpired)
}

func IsTooManyAttempts(err error) bool {
	return errors.Is(err, ErrTooManyAttempts)
}

func IsTargetNotSet(err error) bool {
	return errors.Is(err, ErrTargetNotSet)
}

func IsAlreadyVerified(err error) bool {
	return errors.Is(err, ErrAlreadyVerified)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsInvalidCarType(err error) bool {
	return errors.Is(err, ErrInvalidCarType)
}

func IsProductIDTaken(err error) bool {
	return errors.Is(err, ErrProductIDTaken)
}

func IsDeviceMismatch(err error) bool {
	return errors.Is(err, ErrDeviceMismatch)
}

func IsInvalidProductType(err error) bool {
	return errors.Is(err, ErrInvalidProductType)
}

func IsAgreementRequired(err error) bool {
	return errors.Is(err, ErrAgreementRequired)
}

func IsMissingRequiredField(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrApplicationNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrPayoutNotFound)
}
