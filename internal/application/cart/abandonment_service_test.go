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

func seedStaleSession(t *testing.T, repo *fakeSessionRepo, age time.Duration) *cart.Session {
	t.Helper()
	session := seedSession(t, repo)
	repo.sessions[session.ID].UpdatedAt = time.Now().Add(-age)
	return session
}

func TestSweepService(t *testing.T) {
	t.Run("marks only sessions past the threshold", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewSweepService(sessions, 24*time.Hour, zap.NewNop())

		stale := seedStaleSession(t, sessions, 25*time.Hour)
		fresh := seedStaleSession(t, sessions, time.Hour)

		swept, err := svc.Sweep(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(1), swept)
		assert.Equal(t, cart.SessionStatusAbandoned, sessions.sessions[stale.ID].Status)
		assert.NotNil(t, sessions.sessions[stale.ID].AbandonedAt)
		assert.Equal(t, cart.SessionStatusActive, sessions.sessions[fresh.ID].Status)
	})

	t.Run("a second sweep over the same data marks nothing", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewSweepService(sessions, 24*time.Hour, zap.NewNop())
		seedStaleSession(t, sessions, 25*time.Hour)

		swept, err := svc.Sweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, int64(1), swept)

		swept, err = svc.Sweep(context.Background())
		require.NoError(t, err)
		assert.Zero(t, swept)
	})

	t.Run("defaults a non-positive threshold", func(t *testing.T) {
		svc := NewSweepService(newFakeSessionRepo(), 0, zap.NewNop())

		assert.Equal(t, cart.DefaultStalenessThreshold, svc.Threshold())
	})
}

func TestAbandonmentServiceStats(t *testing.T) {
	newFixture := func(toggle ToggleProvider) (*AbandonmentService, *fakeSessionRepo, *fakeEventRepo) {
		sessions := newFakeSessionRepo()
		events := &fakeEventRepo{}
		sweeper := NewSweepService(sessions, 24*time.Hour, zap.NewNop())
		svc := NewAbandonmentService(sessions, events, sweeper, toggle, zap.NewNop())
		return svc, sessions, events
	}

	t.Run("sweeps stale sessions before aggregating", func(t *testing.T) {
		svc, sessions, _ := newFixture(&fakeToggle{enabled: true})
		seedStaleSession(t, sessions, 30*time.Hour)
		seedAbandonedSession(t, sessions, time.Now().Add(-2*time.Hour))

		stats, err := svc.Stats(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.SweptNow)
		// Both the freshly swept session and the earlier one count.
		assert.Equal(t, int64(2), stats.TotalAbandoned)
		assert.True(t, stats.TotalAbandonedAmount.Equal(decimal.NewFromFloat(99.98)))
	})

	t.Run("counts abandoned events in the window", func(t *testing.T) {
		svc, sessions, events := newFixture(&fakeToggle{enabled: true})
		session := seedAbandonedSession(t, sessions, time.Now().Add(-time.Hour))
		event, err := cart.NewEvent(session.ID, cart.EventTypeAbandoned)
		require.NoError(t, err)
		require.NoError(t, events.Save(context.Background(), event))

		stats, err := svc.Stats(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.AbandonedEvents)
	})

	t.Run("returns feature disabled when the store opted out", func(t *testing.T) {
		svc, _, _ := newFixture(&fakeToggle{enabled: false})

		_, err := svc.Stats(context.Background(), 7)

		assert.ErrorIs(t, err, shared.ErrFeatureDisabled)
	})

	t.Run("propagates toggle lookup failures", func(t *testing.T) {
		svc, _, _ := newFixture(&fakeToggle{err: errors.New("simulated settings failure")})

		_, err := svc.Stats(context.Background(), 7)

		assert.Error(t, err)
	})
}
