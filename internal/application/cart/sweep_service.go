package cart

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
)

// SweepService transitions stale active sessions to abandoned. The
// sweep runs as a single conditional bulk update, so concurrent sweeps
// and repeated runs over the same data are harmless; each session is
// marked at most once.
type SweepService struct {
	sessions  cart.SessionRepository
	threshold time.Duration
	logger    *zap.Logger
}

// NewSweepService creates a new SweepService. threshold is how long a
// session may go without activity before it counts as abandoned.
func NewSweepService(sessions cart.SessionRepository, threshold time.Duration, logger *zap.Logger) *SweepService {
	if threshold <= 0 {
		threshold = cart.DefaultStalenessThreshold
	}
	return &SweepService{
		sessions:  sessions,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the configured staleness threshold
func (s *SweepService) Threshold() time.Duration {
	return s.threshold
}

// Sweep marks every active session untouched since the staleness cutoff
// as abandoned and returns how many sessions were transitioned.
func (s *SweepService) Sweep(ctx context.Context) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-s.threshold)

	swept, err := s.sessions.MarkAbandonedOlderThan(ctx, cutoff, now)
	if err != nil {
		s.logger.Error("cart abandonment sweep failed",
			zap.Time("cutoff", cutoff),
			zap.Error(err))
		return 0, err
	}

	if swept > 0 {
		s.logger.Info("marked stale cart sessions as abandoned",
			zap.Int64("count", swept),
			zap.Time("cutoff", cutoff))
	}
	return swept, nil
}
