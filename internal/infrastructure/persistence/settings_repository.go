package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Ensure GormSettingsRepository implements settings.Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)

// GormSettingsRepository implements settings.Repository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the value stored under key
func (r *GormSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Value, nil
}

// Set upserts the value for key
func (r *GormSettingsRepository) Set(ctx context.Context, key, value string) error {
	model := models.SettingModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}
