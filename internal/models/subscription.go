package models

import (
	"time"

	"gorm.io/gorm"
)

// HostSubscription is a paid listing plan for a host. The purchase posts
// SUBSCRIPTION_REVENUE to the platform ledger.
type HostSubscription struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Plan        string         `gorm:"size:30;not null" json:"plan"` // MONTHLY, YEARLY
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	PurchaseRef string         `gorm:"size:64;uniqueIndex;not null" json:"purchase_ref"`
	ExpiresAt   time.Time      `gorm:"index" json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (HostSubscription) TableName() string { return "host_subscriptions" }
