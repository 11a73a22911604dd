package utils

import (
	"time"
)

// Token and session time constants
const (
	// SessionTTL is the retention window for device-scoped sessions (30 days)
	SessionTTL = 30 * 24 * time.Hour

	// SessionTTLSeconds is the session retention window in seconds
	SessionTTLSeconds = 30 * 24 * 60 * 60

	// KYCChallengeExpiry is the time-to-live for KYC verification challenges (5 minutes)
	KYCChallengeExpiry = 5 * time.Minute

	// KYCChallengeExpirySeconds is the challenge time-to-live in seconds
	KYCChallengeExpirySeconds = 300

	// KYCChallengeMaxAttempts is the number of code attempts before a challenge is burned
	KYCChallengeMaxAttempts = 3
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Link constants
const (
	// ProductLinkCodePrefix prefixes every generated shareable link code
	ProductLinkCodePrefix = "PL_"

	// ProductLinkPath is the SPA route a shareable URL points at
	ProductLinkPath = "/product-link/"
)
