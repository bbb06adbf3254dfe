package cart

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// RecoveryService completes abandoned sessions and aggregates recovery
// analytics.
type RecoveryService struct {
	sessions   cart.SessionRepository
	recoveries cart.RecoveryRepository
	events     cart.EventRepository
	recentN    int
	logger     *zap.Logger
}

// NewRecoveryService creates a new RecoveryService. recentN bounds the
// recent-recoveries list in Stats.
func NewRecoveryService(
	sessions cart.SessionRepository,
	recoveries cart.RecoveryRepository,
	events cart.EventRepository,
	recentN int,
	logger *zap.Logger,
) *RecoveryService {
	if recentN <= 0 {
		recentN = 10
	}
	return &RecoveryService{
		sessions:   sessions,
		recoveries: recoveries,
		events:     events,
		recentN:    recentN,
		logger:     logger,
	}
}

// Recover completes an abandoned session and records the recovery. Only
// the first recovery of a cart produces a record; a repeated call for an
// already-recovered cart returns the existing record unchanged, so the
// operation is safe to retry.
func (s *RecoveryService) Recover(ctx context.Context, sessionID uuid.UUID, amount decimal.Decimal) (*RecoveryResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	existing, err := s.recoveries.FindByAbandonedCartID(ctx, sessionID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		resp := ToRecoveryResponse(existing)
		return &resp, nil
	}

	if !session.IsAbandoned() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only abandoned sessions can be recovered")
	}

	now := time.Now()
	if amount.IsZero() {
		amount = session.TotalAmount
	}

	// Build the record before completing; Complete clears AbandonedAt.
	recovery, err := cart.NewRecovery(session, amount, now)
	if err != nil {
		return nil, err
	}

	if err := session.Complete(now); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.recoveries.Save(ctx, recovery); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, session.ID, cart.EventTypeRecovered)

	s.logger.Info("abandoned cart recovered",
		zap.String("session_id", sessionID.String()),
		zap.String("amount", amount.String()),
		zap.Float64("hours_to_recovery", recovery.TimeToRecoveryHours))

	resp := ToRecoveryResponse(recovery)
	return &resp, nil
}

// Stats aggregates recovery metrics over the trailing periodDays. The
// recovery rate is zero, not an error, when nothing was abandoned in the
// period.
func (s *RecoveryService) Stats(ctx context.Context, periodDays int) (*RecoveryStats, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	// The denominator counts every cart that entered the abandoned state
	// in the window. Recovered carts have left the abandoned status, so
	// they are counted from the recovery records, where the abandonment
	// timestamp is preserved.
	stillAbandoned, err := s.sessions.CountAbandonedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	recoveredAbandoned, err := s.recoveries.CountAbandonedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	totalAbandoned := stillAbandoned + recoveredAbandoned
	totalRecovered, err := s.recoveries.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	totalAmount, err := s.recoveries.SumAmountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	avgHours, err := s.recoveries.AvgTimeToRecoverySince(ctx, since)
	if err != nil {
		return nil, err
	}
	recent, err := s.recoveries.FindRecentSince(ctx, since, s.recentN)
	if err != nil {
		return nil, err
	}

	stats := &RecoveryStats{
		PeriodDays:             periodDays,
		TotalRecovered:         totalRecovered,
		TotalAbandoned:         totalAbandoned,
		TotalRecoveryAmount:    totalAmount,
		AvgRecoveryAmount:      decimal.Zero,
		AvgTimeToRecoveryHours: avgHours,
		RecentRecoveries:       make([]RecoveryResponse, 0, len(recent)),
	}
	// Rate is a percentage; exactly zero when nothing was abandoned in
	// the period, never a division error.
	if totalAbandoned > 0 {
		stats.RecoveryRate = float64(totalRecovered) / float64(totalAbandoned) * 100
	}
	if totalRecovered > 0 {
		stats.AvgRecoveryAmount = totalAmount.Div(decimal.NewFromInt(totalRecovered)).Round(2)
	}
	for i := range recent {
		stats.RecentRecoveries = append(stats.RecentRecoveries, ToRecoveryResponse(&recent[i]))
	}
	return stats, nil
}

func (s *RecoveryService) recordEvent(ctx context.Context, sessionID uuid.UUID, eventType cart.EventType) {
	event, err := cart.NewEvent(sessionID, eventType)
	if err != nil {
		return
	}
	if err := s.events.Save(ctx, event); err != nil {
		s.logger.Warn("failed to record cart event",
			zap.String("session_id", sessionID.String()),
			zap.String("type", string(eventType)),
			zap.Error(err))
	}
}
