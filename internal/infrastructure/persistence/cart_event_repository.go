package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCartEventRepository implements EventRepository
var _ cart.EventRepository = (*GormCartEventRepository)(nil)

// GormCartEventRepository implements cart.EventRepository using GORM
type GormCartEventRepository struct {
	db *gorm.DB
}

// NewGormCartEventRepository creates a new GormCartEventRepository
func NewGormCartEventRepository(db *gorm.DB) *GormCartEventRepository {
	return &GormCartEventRepository{db: db}
}

// Save appends a cart event
func (r *GormCartEventRepository) Save(ctx context.Context, event *cart.Event) error {
	var model models.CartEventModel
	model.FromDomain(event)
	return r.db.WithContext(ctx).Create(&model).Error
}

// CountByTypeSince counts events of one type within the window
func (r *GormCartEventRepository) CountByTypeSince(ctx context.Context, eventType cart.EventType, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartEventModel{}).
		Where("type = ? AND created_at >= ?", string(eventType), since).
		Count(&count).Error
	return count, err
}
