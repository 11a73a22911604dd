// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/acelion55/finonest/repository"
)

// SessionCleanupScheduler periodically purges expired sessions and marks
// stale KYC challenges as expired. Expiry is also enforced at read time, so
// the sweep only reclaims storage and keeps reporting queries honest.
type SessionCleanupScheduler struct {
	sessionRepo   repository.UserSessionRepository
	challengeRepo repository.VerificationChallengeRepository
	logger        *log.Logger
	interval      time.Duration
}

func NewSessionCleanupScheduler(
	sessionRepo repository.UserSessionRepository,
	challengeRepo repository.VerificationChallengeRepository,
	logger *log.Logger,
	interval time.Duration,
) *SessionCleanupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &SessionCleanupScheduler{
		sessionRepo:   sessionRepo,
		challengeRepo: challengeRepo,
		logger:        logger,
		interval:      interval,
	}
}

// Start launches the cleanup loop. The returned function stops it.
func (s *SessionCleanupScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()

	s.logger.Printf("session cleanup scheduler started (interval=%s)", s.interval)
	return cancel
}

func (s *SessionCleanupScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.sessionRepo.DeleteAllExpired(ctx)
	if err != nil {
		s.logger.Printf("session cleanup: failed to delete expired sessions: %v", err)
	} else if deleted > 0 {
		s.logger.Printf("session cleanup: deleted %d expired sessions", deleted)
	}

	expired, err := s.challengeRepo.ExpireAllStale(ctx)
	if err != nil {
		s.logger.Printf("session cleanup: failed to expire stale challenges: %v", err)
	} else if expired > 0 {
		s.logger.Printf("session cleanup: expired %d stale challenges", expired)
	}
}
