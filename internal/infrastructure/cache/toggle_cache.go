// Package cache provides redis-backed caches over persisted settings.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
)

// Ensure ToggleCache implements ToggleProvider
var _ cartapp.ToggleProvider = (*ToggleCache)(nil)

// ToggleCache answers feature-toggle lookups from redis, falling back to
// the settings table on a miss and writing the value back with a TTL.
// A redis outage degrades to reading the database directly.
type ToggleCache struct {
	client   *redis.Client
	settings settings.Repository
	key      string
	ttl      time.Duration
	logger   *zap.Logger
}

// NewToggleCache creates a cache for the cart abandonment toggle
func NewToggleCache(client *redis.Client, repo settings.Repository, ttl time.Duration, logger *zap.Logger) *ToggleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ToggleCache{
		client:   client,
		settings: repo,
		key:      "settings:" + settings.KeyCartAbandonmentToggle,
		ttl:      ttl,
		logger:   logger,
	}
}

// IsEnabled reports whether cart abandonment tracking is switched on.
// An absent setting means enabled; stores opt out, not in.
func (c *ToggleCache) IsEnabled(ctx context.Context) (bool, error) {
	if c.client != nil {
		cached, err := c.client.Get(ctx, c.key).Result()
		if err == nil {
			return parseToggle(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("toggle cache read failed, falling back to database", zap.Error(err))
		}
	}

	value, err := c.settings.Get(ctx, settings.KeyCartAbandonmentToggle)
	if errors.Is(err, shared.ErrNotFound) {
		value = "true"
	} else if err != nil {
		return false, fmt.Errorf("failed to read abandonment toggle: %w", err)
	}

	if c.client != nil {
		if err := c.client.Set(ctx, c.key, value, c.ttl).Err(); err != nil {
			c.logger.Warn("toggle cache write failed", zap.Error(err))
		}
	}
	return parseToggle(value), nil
}

// Invalidate drops the cached value so the next read hits the database.
// Called after the toggle is changed.
func (c *ToggleCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.logger.Warn("toggle cache invalidation failed", zap.Error(err))
	}
}

func parseToggle(value string) bool {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return enabled
}
