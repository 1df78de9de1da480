package models

import "time"

// SystemSetting is one admin-tunable policy knob (commission percent,
// cancellation lock hours, pending staleness). Rows are upserted in place
// and never deleted; consumers read the value at use time.
type SystemSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100;not null" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SystemSetting) TableName() string { return "system_settings" }
