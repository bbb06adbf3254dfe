// Package settings holds store-level key-value configuration persisted
// in the database, such as feature toggles.
package settings

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// KeyCartAbandonmentToggle switches cart abandonment tracking on or off
// for the store.
const KeyCartAbandonmentToggle = "cartAbandonmentToggle"

// Setting is one persisted key-value pair
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// NewSetting creates a setting
func NewSetting(key, value string) (*Setting, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_SETTING", "Setting key is required")
	}
	return &Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}, nil
}

// Repository persists settings
type Repository interface {
	// Get returns the value for key, or shared.ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value for key
	Set(ctx context.Context, key, value string) error
}
