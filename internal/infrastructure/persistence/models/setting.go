package models

import "time"

// SettingModel is the GORM model for store-level key-value settings
type SettingModel struct {
	Key       string    `gorm:"type:varchar(64);primary_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (SettingModel) TableName() string {
	return "settings"
}
