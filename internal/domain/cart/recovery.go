package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Recovery records an abandoned session whose shopper returned and
// completed checkout via a recovery link. At most one recovery exists
// per abandoned cart; the first one wins.
type Recovery struct {
	shared.BaseEntity
	AbandonedCartID uuid.UUID
	// AbandonedAt preserves when the cart entered the abandoned state.
	// Completing the recovery clears it on the session, so window math
	// over abandonment reads it from here.
	AbandonedAt         time.Time
	RecoveredAt         time.Time
	RecoveryAmount      decimal.Decimal
	TimeToRecoveryHours float64
}

// NewRecovery builds the recovery record for an abandoned session
// completing checkout at recoveredAt.
func NewRecovery(session *Session, recoveryAmount decimal.Decimal, recoveredAt time.Time) (*Recovery, error) {
	if session.AbandonedAt == nil {
		return nil, shared.NewDomainError("NOT_ABANDONED", "Only abandoned sessions can be recovered")
	}
	return &Recovery{
		BaseEntity:          shared.NewBaseEntity(),
		AbandonedCartID:     session.ID,
		AbandonedAt:         *session.AbandonedAt,
		RecoveredAt:         recoveredAt,
		RecoveryAmount:      recoveryAmount,
		TimeToRecoveryHours: recoveredAt.Sub(*session.AbandonedAt).Hours(),
	}, nil
}
