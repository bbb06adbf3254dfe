package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// CartSessionModel is the GORM model for cart sessions
type CartSessionModel struct {
	AggregateModel
	Status      string          `gorm:"type:varchar(16);not null;index:idx_cart_sessions_sweep,priority:1"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ItemCount   int             `gorm:"not null"`
	AbandonedAt *time.Time      `gorm:"index"`
}

// TableName specifies the table name
func (CartSessionModel) TableName() string {
	return "cart_sessions"
}

// ToDomain converts the model to a domain session
func (m *CartSessionModel) ToDomain() *cart.Session {
	return &cart.Session{
		BaseAggregateRoot: toAggregateRoot(m.AggregateModel),
		Status:            cart.SessionStatus(m.Status),
		TotalAmount:       m.TotalAmount,
		ItemCount:         m.ItemCount,
		AbandonedAt:       m.AbandonedAt,
	}
}

// FromDomain populates the model from a domain session
func (m *CartSessionModel) FromDomain(s *cart.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Status = string(s.Status)
	m.TotalAmount = s.TotalAmount
	m.ItemCount = s.ItemCount
	m.AbandonedAt = s.AbandonedAt
}

// CartRecoveryModel is the GORM model for cart recoveries
type CartRecoveryModel struct {
	BaseModel
	AbandonedCartID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	AbandonedAt         time.Time       `gorm:"not null;index"`
	RecoveredAt         time.Time       `gorm:"not null;index"`
	RecoveryAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TimeToRecoveryHours float64         `gorm:"not null"`
}

// TableName specifies the table name
func (CartRecoveryModel) TableName() string {
	return "cart_recoveries"
}

// ToDomain converts the model to a domain recovery
func (m *CartRecoveryModel) ToDomain() *cart.Recovery {
	return &cart.Recovery{
		BaseEntity:          m.BaseModel.ToDomain(),
		AbandonedCartID:     m.AbandonedCartID,
		AbandonedAt:         m.AbandonedAt,
		RecoveredAt:         m.RecoveredAt,
		RecoveryAmount:      m.RecoveryAmount,
		TimeToRecoveryHours: m.TimeToRecoveryHours,
	}
}

// FromDomain populates the model from a domain recovery
func (m *CartRecoveryModel) FromDomain(r *cart.Recovery) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.AbandonedCartID = r.AbandonedCartID
	m.AbandonedAt = r.AbandonedAt
	m.RecoveredAt = r.RecoveredAt
	m.RecoveryAmount = r.RecoveryAmount
	m.TimeToRecoveryHours = r.TimeToRecoveryHours
}

// CartEventModel is the GORM model for cart events
type CartEventModel struct {
	BaseModel
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(16);not null;index:idx_cart_events_type_time,priority:1"`
}

// TableName specifies the table name
func (CartEventModel) TableName() string {
	return "cart_events"
}

// ToDomain converts the model to a domain event
func (m *CartEventModel) ToDomain() *cart.Event {
	return &cart.Event{
		BaseEntity: m.BaseModel.ToDomain(),
		SessionID:  m.SessionID,
		Type:       cart.EventType(m.Type),
	}
}

// FromDomain populates the model from a domain event
func (m *CartEventModel) FromDomain(e *cart.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.SessionID = e.SessionID
	m.Type = string(e.Type)
}

func toAggregateRoot(m AggregateModel) shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}
