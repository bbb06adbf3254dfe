package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCartRecoveryRepository implements RecoveryRepository
var _ cart.RecoveryRepository = (*GormCartRecoveryRepository)(nil)

// GormCartRecoveryRepository implements cart.RecoveryRepository using GORM
type GormCartRecoveryRepository struct {
	db *gorm.DB
}

// NewGormCartRecoveryRepository creates a new GormCartRecoveryRepository
func NewGormCartRecoveryRepository(db *gorm.DB) *GormCartRecoveryRepository {
	return &GormCartRecoveryRepository{db: db}
}

// Save inserts a recovery record. The unique index on abandoned_cart_id
// backs the first-recovery-wins rule at the database level; a duplicate
// insert surfaces as ErrAlreadyExists.
func (r *GormCartRecoveryRepository) Save(ctx context.Context, recovery *cart.Recovery) error {
	var model models.CartRecoveryModel
	model.FromDomain(recovery)
	err := r.db.WithContext(ctx).Create(&model).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// FindByAbandonedCartID returns the recovery for an abandoned cart
func (r *GormCartRecoveryRepository) FindByAbandonedCartID(ctx context.Context, abandonedCartID uuid.UUID) (*cart.Recovery, error) {
	var model models.CartRecoveryModel
	if err := r.db.WithContext(ctx).
		First(&model, "abandoned_cart_id = ?", abandonedCartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindRecentSince returns the most recent recoveries within the window
func (r *GormCartRecoveryRepository) FindRecentSince(ctx context.Context, since time.Time, limit int) ([]cart.Recovery, error) {
	var recoveryModels []models.CartRecoveryModel
	if err := r.db.WithContext(ctx).
		Where("recovered_at >= ?", since).
		Order("recovered_at DESC").
		Limit(limit).
		Find(&recoveryModels).Error; err != nil {
		return nil, err
	}
	recoveries := make([]cart.Recovery, len(recoveryModels))
	for i, model := range recoveryModels {
		recoveries[i] = *model.ToDomain()
	}
	return recoveries, nil
}

// CountSince counts recoveries within the window
func (r *GormCartRecoveryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartRecoveryModel{}).
		Where("recovered_at >= ?", since).
		Count(&count).Error
	return count, err
}

// CountAbandonedSince counts recoveries whose cart entered the abandoned
// state within the window. Recovered carts no longer show up in the
// sessions table as abandoned, so abandonment window math for them reads
// the timestamp preserved here.
func (r *GormCartRecoveryRepository) CountAbandonedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartRecoveryModel{}).
		Where("abandoned_at >= ?", since).
		Count(&count).Error
	return count, err
}

// SumAmountSince totals the recovered cart value within the window
func (r *GormCartRecoveryRepository) SumAmountSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.CartRecoveryModel{}).
		Select("SUM(recovery_amount)").
		Where("recovered_at >= ?", since).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// AvgTimeToRecoverySince averages hours-to-recovery within the window.
// Zero recoveries yields zero, not an error.
func (r *GormCartRecoveryRepository) AvgTimeToRecoverySince(ctx context.Context, since time.Time) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.CartRecoveryModel{}).
		Select("AVG(time_to_recovery_hours)").
		Where("recovered_at >= ?", since).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
