// Package dto contains Data Transfer Objects for API request and response structures
package dto

// IssueChallengeRequest asks the server to issue a verification code for a KYC target
type IssueChallengeRequest struct {
	Target string `json:"target" validate:"required,oneof=aadhaar pan bank"`
}

// IssueChallengeResponse carries the issued challenge reference. The code is
// delivered out of band; in this deployment it is returned for the sandbox
// verification providers to consume.
type IssueChallengeResponse struct {
	ChallengeID string `json:"challengeId"`
	Target      string `json:"target"`
	ExpiresIn   int    `json:"expiresIn"`
}

// VerifyChallengeRequest submits the code for a pending challenge
type VerifyChallengeRequest struct {
	Target string `json:"target" validate:"required,oneof=aadhaar pan bank"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyChallengeResponse reports the verification outcome and refreshed KYC state
type VerifyChallengeResponse struct {
	Target    string  `json:"target"`
	Verified  bool    `json:"verified"`
	KYCStatus string  `json:"kycStatus"`
	User      UserDTO `json:"user"`
}
