package models

import (
	"time"

	"gorm.io/gorm"
)

// LedgerEntry is one posted revenue movement. The ledger is append-only: a
// reversal writes a negated entry rather than touching the original. The
// unique index over (source_ref, category, direction) is the at-most-once
// guard for posting.
type LedgerEntry struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SourceRef     string         `gorm:"size:64;not null;uniqueIndex:idx_ledger_dedupe" json:"source_ref"` // booking ticket or purchase ref
	Category      string         `gorm:"size:30;not null;uniqueIndex:idx_ledger_dedupe" json:"category"`
	Direction     string         `gorm:"size:10;not null;uniqueIndex:idx_ledger_dedupe" json:"direction"` // APPLY | REVERSE
	PayerID       uint           `gorm:"not null" json:"payer_id"`
	PayerKind     string         `gorm:"size:20;not null" json:"payer_kind"`
	RecipientID   uint           `gorm:"not null;index" json:"recipient_id"`
	RecipientKind string         `gorm:"size:20;not null" json:"recipient_kind"`
	AmountCents   int64          `gorm:"not null" json:"amount_cents"` // signed; negative on reversal
	PeriodDate    time.Time      `gorm:"type:date;not null;index" json:"period_date"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
