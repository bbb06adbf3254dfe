package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionRepository persists cart sessions
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error

	// MarkAbandonedOlderThan promotes every active session untouched
	// since cutoff to abandoned in a single conditional update and
	// returns the number of rows transitioned. The predicate re-checks
	// status so overlapping sweeps stay harmless.
	MarkAbandonedOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error)

	// CountAbandonedSince counts sessions abandoned within the window
	CountAbandonedSince(ctx context.Context, since time.Time) (int64, error)

	// SumAbandonedAmountSince totals the cart value abandoned within the window
	SumAbandonedAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

// RecoveryRepository persists cart recovery records
type RecoveryRepository interface {
	Save(ctx context.Context, recovery *Recovery) error
	FindByAbandonedCartID(ctx context.Context, abandonedCartID uuid.UUID) (*Recovery, error)
	FindRecentSince(ctx context.Context, since time.Time, limit int) ([]Recovery, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// CountAbandonedSince counts recoveries whose cart entered the
	// abandoned state within the window
	CountAbandonedSince(ctx context.Context, since time.Time) (int64, error)
	SumAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	AvgTimeToRecoverySince(ctx context.Context, since time.Time) (float64, error)
}

// EventRepository persists cart events
type EventRepository interface {
	Save(ctx context.Context, event *Event) error
	CountByTypeSince(ctx context.Context, eventType EventType, since time.Time) (int64, error)
}
