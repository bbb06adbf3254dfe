package cart

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// ToggleProvider reports whether cart abandonment tracking is enabled
// for the store. Implemented by the cache layer over store settings.
type ToggleProvider interface {
	IsEnabled(ctx context.Context) (bool, error)
}

// AbandonmentService serves abandonment analytics. Reading analytics is
// what drives the sweep: stale sessions are marked abandoned on demand
// right before aggregation, so the numbers reflect the staleness
// threshold without a background scheduler.
type AbandonmentService struct {
	sessions cart.SessionRepository
	events   cart.EventRepository
	sweeper  *SweepService
	toggle   ToggleProvider
	logger   *zap.Logger
}

// NewAbandonmentService creates a new AbandonmentService
func NewAbandonmentService(
	sessions cart.SessionRepository,
	events cart.EventRepository,
	sweeper *SweepService,
	toggle ToggleProvider,
	logger *zap.Logger,
) *AbandonmentService {
	return &AbandonmentService{
		sessions: sessions,
		events:   events,
		sweeper:  sweeper,
		toggle:   toggle,
		logger:   logger,
	}
}

// Stats sweeps stale sessions and aggregates abandonment metrics over
// the trailing periodDays. Returns ErrFeatureDisabled when the store
// has abandonment tracking switched off.
func (s *AbandonmentService) Stats(ctx context.Context, periodDays int) (*AbandonmentStats, error) {
	enabled, err := s.toggle.IsEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, shared.ErrFeatureDisabled
	}

	swept, err := s.sweeper.Sweep(ctx)
	if err != nil {
		return nil, err
	}

	if periodDays <= 0 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	totalAbandoned, err := s.sessions.CountAbandonedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	totalAmount, err := s.sessions.SumAbandonedAmountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	abandonedEvents, err := s.events.CountByTypeSince(ctx, cart.EventTypeAbandoned, since)
	if err != nil {
		return nil, err
	}

	return &AbandonmentStats{
		PeriodDays:           periodDays,
		SweptNow:             swept,
		TotalAbandoned:       totalAbandoned,
		TotalAbandonedAmount: totalAmount,
		AbandonedEvents:      abandonedEvents,
	}, nil
}
