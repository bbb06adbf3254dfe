package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// EventType classifies a recorded cart event
type EventType string

const (
	EventTypeView      EventType = "view"
	EventTypeUpdate    EventType = "update"
	EventTypeAbandoned EventType = "abandoned"
	EventTypeCompleted EventType = "completed"
	EventTypeRecovered EventType = "recovered"
)

// IsValid checks if the event type is valid
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeView, EventTypeUpdate, EventTypeAbandoned, EventTypeCompleted, EventTypeRecovered:
		return true
	default:
		return false
	}
}

// Event is an append-only record of cart activity, kept for analytics.
type Event struct {
	shared.BaseEntity
	SessionID uuid.UUID
	Type      EventType
}

// NewEvent creates a cart event for a session
func NewEvent(sessionID uuid.UUID, eventType EventType) (*Event, error) {
	if !eventType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown cart event type")
	}
	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		SessionID:  sessionID,
		Type:       eventType,
	}, nil
}
