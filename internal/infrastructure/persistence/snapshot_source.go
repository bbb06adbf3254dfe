package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/backend/internal/application/datamanager"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// Ensure GormSnapshotSource implements SnapshotSource
var _ datamanager.SnapshotSource = (*GormSnapshotSource)(nil)

// GormSnapshotSource renders table contents as JSON for the data
// manager's export surface. Only the storefront's own tables are
// exposed; the table name is checked against the allow-list before it
// reaches SQL.
type GormSnapshotSource struct {
	db     *gorm.DB
	tables []string
}

// NewGormSnapshotSource creates a new GormSnapshotSource
func NewGormSnapshotSource(db *gorm.DB) *GormSnapshotSource {
	return &GormSnapshotSource{
		db: db,
		tables: []string{
			models.CartSessionModel{}.TableName(),
			models.CartRecoveryModel{}.TableName(),
			models.CartEventModel{}.TableName(),
			models.SettingModel{}.TableName(),
		},
	}
}

// Tables lists the table names available for export
func (s *GormSnapshotSource) Tables() []string {
	return append([]string(nil), s.tables...)
}

// Snapshot renders the current contents of table as JSON
func (s *GormSnapshotSource) Snapshot(ctx context.Context, table string) ([]byte, error) {
	allowed := false
	for _, t := range s.tables {
		if t == table {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("table %s is not exportable", table)
	}

	var rows []map[string]interface{}
	if err := s.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return json.MarshalIndent(rows, "", "  ")
}
