package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment records the trusted confirmation payload for a booking. Capture
// happens outside this system; the unique MethodRef rejects replayed
// confirmations at the database level.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BookingID   uint           `gorm:"not null;index" json:"booking_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	MethodRef   string         `gorm:"size:255;uniqueIndex;not null" json:"method_ref"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (Payment) TableName() string { return "payments" }
