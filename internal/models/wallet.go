package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a host's running revenue balances. Both columns are mutated
// exclusively by the ledger poster through atomic SQL increments; nothing
// else writes them.
type Wallet struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	UserID                uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalRevenueCents     int64          `gorm:"not null;default:0" json:"total_revenue_cents"`
	AvailableRevenueCents int64          `gorm:"not null;default:0" json:"available_revenue_cents"`
	Currency              string         `gorm:"size:3;default:'USD'" json:"currency"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }

// Withdrawal is a host's payout request against available revenue.
type Withdrawal struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	OrderID     string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string { return "withdrawals" }
