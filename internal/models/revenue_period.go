package models

import (
	"time"

	"gorm.io/gorm"
)

// RevenuePeriod is the platform's per-date revenue rollup. One row per
// calendar date (in the scheduler timezone); buckets are incremented
// atomically by the ledger poster and decremented symmetrically on reversal.
type RevenuePeriod struct {
	ID                        uint           `gorm:"primaryKey" json:"id"`
	PeriodDate                time.Time      `gorm:"type:date;uniqueIndex;not null" json:"period_date"`
	TotalBookingRevenueCents  int64          `gorm:"not null;default:0" json:"total_booking_revenue_cents"`
	TotalPercentRevenueCents  int64          `gorm:"not null;default:0" json:"total_percentage_revenue_cents"`
	TotalSubscriptionRevenue  int64          `gorm:"column:total_subscription_revenue_cents;not null;default:0" json:"total_subscription_revenue_cents"`
	TotalFeatureRevenueCents  int64          `gorm:"not null;default:0" json:"total_feature_revenue_cents"`
	TotalRevenueCents         int64          `gorm:"not null;default:0" json:"total_revenue_cents"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
	DeletedAt                 gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RevenuePeriod) TableName() string { return "revenue_periods" }

// Discrepancy records a ledger posting that failed after its booking state
// transition had already committed. Surfaced on the admin revenue screen for
// manual reconciliation; never blocks the user-facing flow.
type Discrepancy struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SourceRef  string         `gorm:"size:64;not null;index" json:"source_ref"`
	Direction  string         `gorm:"size:10;not null" json:"direction"`
	Detail     string         `gorm:"size:512" json:"detail"`
	ResolvedAt *time.Time     `json:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Discrepancy) TableName() string { return "discrepancies" }
