package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *fakeSessionRepo) *cart.Session {
	t.Helper()
	session, err := cart.NewSession(decimal.NewFromFloat(49.99), 2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), session))
	return session
}

func seedAbandonedSession(t *testing.T, repo *fakeSessionRepo, abandonedAt time.Time) *cart.Session {
	t.Helper()
	session := seedSession(t, repo)
	require.NoError(t, session.MarkAbandoned(abandonedAt))
	require.NoError(t, repo.Save(context.Background(), session))
	return session
}

func TestTrackingServiceTrackActivity(t *testing.T) {
	t.Run("creates a session on the first trackable mutation", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		svc := NewTrackingService(sessions, events, zap.NewNop())

		resp, err := svc.TrackActivity(context.Background(), TrackInput{
			TotalAmount: decimal.NewFromFloat(19.90),
			ItemCount:   1,
		})

		require.NoError(t, err)
		assert.Equal(t, cart.SessionStatusActive, resp.Status)
		assert.Len(t, sessions.sessions, 1)
		assert.Equal(t, 1, events.countByType(cart.EventTypeView))
	})

	t.Run("rejects an untrackable cart", func(t *testing.T) {
		svc := NewTrackingService(newFakeSessionRepo(), &fakeEventRepo{}, zap.NewNop())

		_, err := svc.TrackActivity(context.Background(), TrackInput{
			TotalAmount: decimal.Zero,
			ItemCount:   0,
		})

		assert.Error(t, err)
	})

	t.Run("touches an existing session and records an update event", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		svc := NewTrackingService(sessions, events, zap.NewNop())
		session := seedSession(t, sessions)

		resp, err := svc.TrackActivity(context.Background(), TrackInput{
			SessionID:   &session.ID,
			TotalAmount: decimal.NewFromFloat(75.00),
			ItemCount:   3,
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(75.00)))
		assert.Equal(t, 3, resp.ItemCount)
		assert.Equal(t, 1, events.countByType(cart.EventTypeUpdate))
	})

	t.Run("recovery flow on an abandoned session is a no-op", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		svc := NewTrackingService(sessions, events, zap.NewNop())
		session := seedAbandonedSession(t, sessions, time.Now().Add(-2*time.Hour))

		resp, err := svc.TrackActivity(context.Background(), TrackInput{
			SessionID:   &session.ID,
			TotalAmount: decimal.NewFromFloat(999.99),
			ItemCount:   9,
			Recovery:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, cart.SessionStatusAbandoned, resp.Status)
		assert.True(t, resp.TotalAmount.Equal(session.TotalAmount), "session must not be mutated")
		assert.Empty(t, events.events, "no event may be recorded during recovery")
	})

	t.Run("recovery flag on a non-abandoned session tracks normally", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		svc := NewTrackingService(sessions, events, zap.NewNop())
		session := seedSession(t, sessions)

		_, err := svc.TrackActivity(context.Background(), TrackInput{
			SessionID:   &session.ID,
			TotalAmount: decimal.NewFromFloat(60.00),
			ItemCount:   2,
			Recovery:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, events.countByType(cart.EventTypeUpdate))
	})

	t.Run("unknown session returns not found", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewTrackingService(sessions, &fakeEventRepo{}, zap.NewNop())
		session, err := cart.NewSession(decimal.NewFromInt(10), 1)
		require.NoError(t, err)

		_, err = svc.TrackActivity(context.Background(), TrackInput{
			SessionID:   &session.ID,
			TotalAmount: decimal.NewFromInt(10),
			ItemCount:   1,
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("event persistence failure does not fail the mutation", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{saveErr: errors.New("simulated event store failure")}
		svc := NewTrackingService(sessions, events, zap.NewNop())
		session := seedSession(t, sessions)

		_, err := svc.TrackActivity(context.Background(), TrackInput{
			SessionID:   &session.ID,
			TotalAmount: decimal.NewFromInt(20),
			ItemCount:   1,
		})

		assert.NoError(t, err)
	})
}

func TestTrackingServiceComplete(t *testing.T) {
	t.Run("completes an active session at checkout", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		svc := NewTrackingService(sessions, events, zap.NewNop())
		session := seedSession(t, sessions)

		resp, err := svc.Complete(context.Background(), session.ID, decimal.NewFromFloat(52.49))

		require.NoError(t, err)
		assert.Equal(t, cart.SessionStatusCompleted, resp.Status)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(52.49)))
		assert.Equal(t, 1, events.countByType(cart.EventTypeCompleted))
	})

	t.Run("keeps the tracked total when checkout reports none", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewTrackingService(sessions, &fakeEventRepo{}, zap.NewNop())
		session := seedSession(t, sessions)

		resp, err := svc.Complete(context.Background(), session.ID, decimal.Zero)

		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(session.TotalAmount))
	})

	t.Run("abandoned sessions must complete via the recovery flow", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewTrackingService(sessions, &fakeEventRepo{}, zap.NewNop())
		session := seedAbandonedSession(t, sessions, time.Now().Add(-time.Hour))

		_, err := svc.Complete(context.Background(), session.ID, decimal.NewFromInt(50))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "RECOVERY_REQUIRED", domainErr.Code)
	})
}
