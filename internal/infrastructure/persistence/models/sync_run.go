package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRunModel is the GORM audit row for one auto-update run. The
// per-table outcome is stored as a JSON document rather than a child
// table; runs are read back whole, never queried by table.
type SyncRunModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt time.Time `gorm:"not null"`
	Failed     bool      `gorm:"not null"`
	Tables     string    `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name
func (SyncRunModel) TableName() string {
	return "sync_runs"
}
