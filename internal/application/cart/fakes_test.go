package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// In-memory repository fakes for exercising the services without a
// database.

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*cart.Session
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*cart.Session)}
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*cart.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *cart.Session) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) MarkAbandonedOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.Status == cart.SessionStatusActive && s.UpdatedAt.Before(cutoff) {
			s.Status = cart.SessionStatusAbandoned
			abandonedAt := now
			s.AbandonedAt = &abandonedAt
			s.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) CountAbandonedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.Status == cart.SessionStatusAbandoned && s.AbandonedAt != nil && !s.AbandonedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) SumAbandonedAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, s := range r.sessions {
		if s.Status == cart.SessionStatusAbandoned && s.AbandonedAt != nil && !s.AbandonedAt.Before(since) {
			sum = sum.Add(s.TotalAmount)
		}
	}
	return sum, nil
}

type fakeRecoveryRepo struct {
	recoveries map[uuid.UUID]*cart.Recovery
}

func newFakeRecoveryRepo() *fakeRecoveryRepo {
	return &fakeRecoveryRepo{recoveries: make(map[uuid.UUID]*cart.Recovery)}
}

func (r *fakeRecoveryRepo) Save(ctx context.Context, recovery *cart.Recovery) error {
	if _, ok := r.recoveries[recovery.AbandonedCartID]; ok {
		return shared.ErrAlreadyExists
	}
	copied := *recovery
	r.recoveries[recovery.AbandonedCartID] = &copied
	return nil
}

func (r *fakeRecoveryRepo) FindByAbandonedCartID(ctx context.Context, abandonedCartID uuid.UUID) (*cart.Recovery, error) {
	rec, ok := r.recoveries[abandonedCartID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeRecoveryRepo) FindRecentSince(ctx context.Context, since time.Time, limit int) ([]cart.Recovery, error) {
	var out []cart.Recovery
	for _, rec := range r.recoveries {
		if !rec.RecoveredAt.Before(since) {
			out = append(out, *rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRecoveryRepo) CountAbandonedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, rec := range r.recoveries {
		if !rec.AbandonedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRecoveryRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, rec := range r.recoveries {
		if !rec.RecoveredAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRecoveryRepo) SumAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rec := range r.recoveries {
		if !rec.RecoveredAt.Before(since) {
			sum = sum.Add(rec.RecoveryAmount)
		}
	}
	return sum, nil
}

func (r *fakeRecoveryRepo) AvgTimeToRecoverySince(ctx context.Context, since time.Time) (float64, error) {
	var sum float64
	var n int
	for _, rec := range r.recoveries {
		if !rec.RecoveredAt.Before(since) {
			sum += rec.TimeToRecoveryHours
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type fakeEventRepo struct {
	events  []*cart.Event
	saveErr error
}

func (r *fakeEventRepo) Save(ctx context.Context, event *cart.Event) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEventRepo) CountByTypeSince(ctx context.Context, eventType cart.EventType, since time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if e.Type == eventType && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) countByType(eventType cart.EventType) int {
	var n int
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fakeToggle struct {
	enabled bool
	err     error
}

func (f *fakeToggle) IsEnabled(ctx context.Context) (bool, error) {
	return f.enabled, f.err
}
