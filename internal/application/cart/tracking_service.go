package cart

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// TrackingService records cart lifecycle activity: session creation and
// touches on content mutations, and completion at checkout.
type TrackingService struct {
	sessions cart.SessionRepository
	events   cart.EventRepository
	logger   *zap.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(sessions cart.SessionRepository, events cart.EventRepository, logger *zap.Logger) *TrackingService {
	return &TrackingService{
		sessions: sessions,
		events:   events,
		logger:   logger,
	}
}

// TrackActivity upserts the session for a cart-content mutation and
// records a cart event. A cart only becomes trackable once it has items
// and a positive total.
//
// Recovery flows are suppressed here rather than trusted to the client:
// an abandoned session touched during recovery records no event and is
// not mutated, so the one-recovery-per-cart invariant cannot be broken
// by a caller omitting the flag on subsequent requests.
func (s *TrackingService) TrackActivity(ctx context.Context, in TrackInput) (*SessionResponse, error) {
	if in.SessionID == nil {
		session, err := cart.NewSession(in.TotalAmount, in.ItemCount)
		if err != nil {
			return nil, err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		s.recordEvent(ctx, session.ID, cart.EventTypeView)
		resp := ToSessionResponse(session)
		return &resp, nil
	}

	session, err := s.sessions.FindByID(ctx, *in.SessionID)
	if err != nil {
		return nil, err
	}

	if in.Recovery && session.IsAbandoned() {
		// The recovery endpoint owns all bookkeeping for this session.
		resp := ToSessionResponse(session)
		return &resp, nil
	}

	if err := session.Touch(in.TotalAmount, in.ItemCount); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	eventType := in.EventType
	if eventType == "" {
		eventType = cart.EventTypeUpdate
	}
	s.recordEvent(ctx, session.ID, eventType)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// Complete transitions a session to completed on a normal (non-recovery)
// checkout. Recovery checkouts go through RecoveryService instead.
func (s *TrackingService) Complete(ctx context.Context, sessionID uuid.UUID, totalAmount decimal.Decimal) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsAbandoned() {
		return nil, shared.NewDomainError("RECOVERY_REQUIRED", "Abandoned sessions complete via the recovery flow")
	}

	now := time.Now()
	if totalAmount.IsPositive() {
		session.TotalAmount = totalAmount
	}
	if err := session.Complete(now); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, session.ID, cart.EventTypeCompleted)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// recordEvent appends a cart event. Event recording is analytics-only
// bookkeeping; failures are logged and never fail the primary mutation.
func (s *TrackingService) recordEvent(ctx context.Context, sessionID uuid.UUID, eventType cart.EventType) {
	event, err := cart.NewEvent(sessionID, eventType)
	if err != nil {
		s.logger.Warn("invalid cart event", zap.String("type", string(eventType)), zap.Error(err))
		return
	}
	if err := s.events.Save(ctx, event); err != nil {
		s.logger.Warn("failed to record cart event",
			zap.String("session_id", sessionID.String()),
			zap.String("type", string(eventType)),
			zap.Error(err))
	}
}
