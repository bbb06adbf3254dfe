package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	syncapp "github.com/storefront/backend/internal/application/sync"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Retention windows for maintenance-pruned tables
const (
	eventRetention   = 90 * 24 * time.Hour
	syncRunRetention = 30 * 24 * time.Hour
)

// Ensure the maintenance types satisfy the sync contracts
var (
	_ syncapp.Refresher   = (*GormMaintenanceRefresher)(nil)
	_ syncapp.RunRecorder = (*GormSyncRunRecorder)(nil)
)

// GormMaintenanceRefresher implements the auto-update table refresh as
// database maintenance: sweeping stale sessions and pruning append-only
// tables past their retention window.
type GormMaintenanceRefresher struct {
	db        *gorm.DB
	threshold time.Duration
}

// NewGormMaintenanceRefresher creates a refresher. threshold is the
// cart staleness threshold used when refreshing cart_sessions.
func NewGormMaintenanceRefresher(db *gorm.DB, threshold time.Duration) *GormMaintenanceRefresher {
	if threshold <= 0 {
		threshold = cart.DefaultStalenessThreshold
	}
	return &GormMaintenanceRefresher{db: db, threshold: threshold}
}

// Refresh runs the maintenance step for one table and returns rows touched
func (r *GormMaintenanceRefresher) Refresh(ctx context.Context, table string) (int64, error) {
	now := time.Now()
	switch table {
	case models.CartSessionModel{}.TableName():
		result := r.db.WithContext(ctx).
			Model(&models.CartSessionModel{}).
			Where("status = ? AND updated_at < ?", string(cart.SessionStatusActive), now.Add(-r.threshold)).
			Updates(map[string]interface{}{
				"status":       string(cart.SessionStatusAbandoned),
				"abandoned_at": now,
				"updated_at":   now,
			})
		return result.RowsAffected, result.Error
	case models.CartEventModel{}.TableName():
		result := r.db.WithContext(ctx).
			Where("created_at < ?", now.Add(-eventRetention)).
			Delete(&models.CartEventModel{})
		return result.RowsAffected, result.Error
	case models.SyncRunModel{}.TableName():
		result := r.db.WithContext(ctx).
			Where("started_at < ?", now.Add(-syncRunRetention)).
			Delete(&models.SyncRunModel{})
		return result.RowsAffected, result.Error
	default:
		return 0, fmt.Errorf("no maintenance step for table %s", table)
	}
}

// MaintenanceTables returns the ordered table list for auto-update runs.
// Sessions are swept before events are pruned so a run never prunes an
// event stream it is still transitioning.
func MaintenanceTables() []string {
	return []string{
		models.CartSessionModel{}.TableName(),
		models.CartEventModel{}.TableName(),
		models.SyncRunModel{}.TableName(),
	}
}

// GormSyncRunRecorder persists auto-update audit rows
type GormSyncRunRecorder struct {
	db *gorm.DB
}

// NewGormSyncRunRecorder creates a new GormSyncRunRecorder
func NewGormSyncRunRecorder(db *gorm.DB) *GormSyncRunRecorder {
	return &GormSyncRunRecorder{db: db}
}

// Record inserts one audit row for a completed run
func (r *GormSyncRunRecorder) Record(ctx context.Context, run syncapp.RunResult) error {
	tables, err := json.Marshal(run.Tables)
	if err != nil {
		return fmt.Errorf("failed to encode run tables: %w", err)
	}
	model := models.SyncRunModel{
		ID:         uuid.New(),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Failed:     run.Failed,
		Tables:     string(tables),
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
