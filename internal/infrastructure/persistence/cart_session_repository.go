// Package persistence implements the domain repository interfaces with
// GORM over PostgreSQL.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCartSessionRepository implements SessionRepository
var _ cart.SessionRepository = (*GormCartSessionRepository)(nil)

// GormCartSessionRepository implements cart.SessionRepository using GORM
type GormCartSessionRepository struct {
	db *gorm.DB
}

// NewGormCartSessionRepository creates a new GormCartSessionRepository
func NewGormCartSessionRepository(db *gorm.DB) *GormCartSessionRepository {
	return &GormCartSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormCartSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Session, error) {
	var model models.CartSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a session
func (r *GormCartSessionRepository) Save(ctx context.Context, session *cart.Session) error {
	var model models.CartSessionModel
	model.FromDomain(session)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
}

// MarkAbandonedOlderThan promotes stale active sessions to abandoned in
// one conditional UPDATE. The status predicate makes the sweep
// idempotent: rows already abandoned or completed are never touched,
// and overlapping sweeps each claim disjoint rows.
func (r *GormCartSessionRepository) MarkAbandonedOlderThan(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartSessionModel{}).
		Where("status = ? AND updated_at < ?", string(cart.SessionStatusActive), cutoff).
		Updates(map[string]interface{}{
			"status":       string(cart.SessionStatusAbandoned),
			"abandoned_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountAbandonedSince counts sessions abandoned within the window
func (r *GormCartSessionRepository) CountAbandonedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartSessionModel{}).
		Where("status = ? AND abandoned_at >= ?", string(cart.SessionStatusAbandoned), since).
		Count(&count).Error
	return count, err
}

// SumAbandonedAmountSince totals the cart value abandoned within the window
func (r *GormCartSessionRepository) SumAbandonedAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.CartSessionModel{}).
		Select("SUM(total_amount)").
		Where("status = ? AND abandoned_at >= ?", string(cart.SessionStatusAbandoned), since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
