package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
)

// TrackInput carries one cart-content mutation to record.
type TrackInput struct {
	// SessionID is empty on the first trackable mutation; a session is
	// created and its ID returned.
	SessionID   *uuid.UUID
	TotalAmount decimal.Decimal
	ItemCount   int
	EventType   cart.EventType
	// Recovery marks the request as part of a recovery flow. Tracking
	// is suppressed for abandoned sessions in that case so an in-flight
	// recovery doesn't re-trigger abandonment bookkeeping.
	Recovery bool
}

// SessionResponse is the API shape of a cart session
type SessionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Status      cart.SessionStatus `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	AbandonedAt *time.Time      `json:"abandoned_at,omitempty"`
}

// ToSessionResponse converts a session entity to its API shape
func ToSessionResponse(s *cart.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		ItemCount:   s.ItemCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		AbandonedAt: s.AbandonedAt,
	}
}

// RecoveryResponse is the API shape of a recovery record
type RecoveryResponse struct {
	ID                  uuid.UUID       `json:"id"`
	AbandonedCartID     uuid.UUID       `json:"abandoned_cart_id"`
	AbandonedAt         time.Time       `json:"abandoned_at"`
	RecoveredAt         time.Time       `json:"recovered_at"`
	RecoveryAmount      decimal.Decimal `json:"recovery_amount"`
	TimeToRecoveryHours float64         `json:"time_to_recovery_hours"`
}

// ToRecoveryResponse converts a recovery entity to its API shape
func ToRecoveryResponse(r *cart.Recovery) RecoveryResponse {
	return RecoveryResponse{
		ID:                  r.ID,
		AbandonedCartID:     r.AbandonedCartID,
		AbandonedAt:         r.AbandonedAt,
		RecoveredAt:         r.RecoveredAt,
		RecoveryAmount:      r.RecoveryAmount,
		TimeToRecoveryHours: r.TimeToRecoveryHours,
	}
}

// AbandonmentStats aggregates abandonment metrics over a rolling window
type AbandonmentStats struct {
	PeriodDays           int             `json:"period_days"`
	SweptNow             int64           `json:"swept_now"`
	TotalAbandoned       int64           `json:"total_abandoned"`
	TotalAbandonedAmount decimal.Decimal `json:"total_abandoned_amount"`
	AbandonedEvents      int64           `json:"abandoned_events"`
}

// RecoveryStats aggregates recovery metrics over a rolling window
type RecoveryStats struct {
	PeriodDays             int                `json:"period_days"`
	RecoveryRate           float64            `json:"recovery_rate"`
	TotalRecovered         int64              `json:"total_recovered"`
	TotalAbandoned         int64              `json:"total_abandoned"`
	TotalRecoveryAmount    decimal.Decimal    `json:"total_recovery_amount"`
	AvgRecoveryAmount      decimal.Decimal    `json:"avg_recovery_amount"`
	AvgTimeToRecoveryHours float64            `json:"avg_time_to_recovery_hours"`
	RecentRecoveries       []RecoveryResponse `json:"recent_recoveries"`
}
