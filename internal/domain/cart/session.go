package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// SessionStatus represents the lifecycle state of a tracked cart
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusAbandoned SessionStatus = "abandoned"
	SessionStatusCompleted SessionStatus = "completed"
)

// IsValid checks if the session status is valid
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusAbandoned, SessionStatusCompleted:
		return true
	default:
		return false
	}
}

// DefaultStalenessThreshold is the elapsed time after which an
// untouched active cart is considered abandoned.
const DefaultStalenessThreshold = 24 * time.Hour

// Session tracks the lifecycle of a shopper's cart. It is created when
// the cart first becomes trackable (non-empty, non-zero total), touched
// on every content change, and transitioned by the sweeper or by
// checkout. Completed is terminal; abandoned is not, since a recovery
// link may still convert the cart.
type Session struct {
	shared.BaseAggregateRoot
	Status      SessionStatus
	TotalAmount decimal.Decimal
	ItemCount   int
	// AbandonedAt is set iff Status == abandoned.
	AbandonedAt *time.Time
}

// NewSession creates a session for a cart that just became trackable
func NewSession(totalAmount decimal.Decimal, itemCount int) (*Session, error) {
	if itemCount <= 0 || !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("NOT_TRACKABLE", "Cart must have items and a positive total to be tracked")
	}
	return &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            SessionStatusActive,
		TotalAmount:       totalAmount,
		ItemCount:         itemCount,
	}, nil
}

// Touch records a cart-content mutation, resetting the staleness clock.
func (s *Session) Touch(totalAmount decimal.Decimal, itemCount int) error {
	if s.Status == SessionStatusCompleted {
		return shared.ErrInvalidState
	}
	s.TotalAmount = totalAmount
	s.ItemCount = itemCount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// MarkAbandoned transitions an active session to abandoned.
func (s *Session) MarkAbandoned(now time.Time) error {
	if s.Status != SessionStatusActive {
		return shared.ErrInvalidState
	}
	s.Status = SessionStatusAbandoned
	s.AbandonedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// Complete transitions the session to completed on checkout. Allowed
// from both active and abandoned (recovery); completed is terminal.
func (s *Session) Complete(now time.Time) error {
	if s.Status == SessionStatusCompleted {
		return shared.ErrInvalidState
	}
	s.Status = SessionStatusCompleted
	s.AbandonedAt = nil
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// IsAbandoned returns true if the session is currently abandoned
func (s *Session) IsAbandoned() bool {
	return s.Status == SessionStatusAbandoned
}

// IsStale reports whether an active session has gone untouched past the
// threshold.
func (s *Session) IsStale(now time.Time, threshold time.Duration) bool {
	return s.Status == SessionStatusActive && now.Sub(s.UpdatedAt) > threshold
}
