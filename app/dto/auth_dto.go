// Package dto contains Data Transfer Objects for API request and response structures
package dto

// SignupRequest represents the signup form data
type SignupRequest struct {
	FullName        string  `json:"fullName" validate:"required,max=255"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Password        string  `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

// LoginRequest represents the login form data
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// AuthResponse represents the response after successful signup or login
type AuthResponse struct {
	Token   string     `json:"token"`
	User    UserDTO    `json:"user"`
	Session SessionDTO `json:"session"`
}

// UserDTO represents user data for API responses
type UserDTO struct {
	ID                uint    `json:"id"`
	UUID              string  `json:"uuid"`
	Email             string  `json:"email"`
	FullName          string  `json:"fullName"`
	Phone             *string `json:"phone,omitempty"`
	Aadhaar           *string `json:"aadhaar,omitempty"`
	PAN               *string `json:"pan,omitempty"`
	BankAccountNumber *string `json:"bankAccountNumber,omitempty"`
	BankIFSC          *string `json:"bankIFSC,omitempty"`
	BankName          *string `json:"bankName,omitempty"`
	AccountHolderName *string `json:"accountHolderName,omitempty"`
	KYCStatus         string  `json:"kycStatus"`
	AadhaarVerified   *bool   `json:"aadhaarVerified"`
	PANVerified       *bool   `json:"panVerified"`
	BankVerified      *bool   `json:"bankVerified"`
	CreatedAt         string  `json:"createdAt"`
}

// SessionDTO represents session data for API responses
type SessionDTO struct {
	DeviceID  string `json:"deviceId"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
	ExpiresAt string `json:"expiresAt"`
}

// UpdateProfileRequest represents a partial profile/KYC update. Only the
// fields present in the payload are applied.
type UpdateProfileRequest struct {
	FullName          *string `json:"fullName,omitempty" validate:"omitempty,max=255"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Aadhaar           *string `json:"aadhaar,omitempty" validate:"omitempty,len=12,numeric"`
	PAN               *string `json:"pan,omitempty" validate:"omitempty,len=10,alphanum"`
	BankAccountNumber *string `json:"bankAccountNumber,omitempty" validate:"omitempty,max=20"`
	BankIFSC          *string `json:"bankIFSC,omitempty" validate:"omitempty,len=11,alphanum"`
	BankName          *string `json:"bankName,omitempty" validate:"omitempty,max=100"`
	AccountHolderName *string `json:"accountHolderName,omitempty" validate:"omitempty,max=255"`
}
