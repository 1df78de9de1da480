package models

import (
	"time"

	"stayhub/internal/domain"

	"gorm.io/gorm"
)

// Booking is one reservation of a property window or an event ticket block.
// The confirmation Ticket is generated exactly once at creation and stays
// stable for the life of the record. GrossAmountCents stays zero until the
// payment confirmation call succeeds; a non-zero value doubles as the
// duplicate-confirmation guard.
type Booking struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Ticket               string         `gorm:"size:64;uniqueIndex;not null" json:"ticket"`
	ListingKind          string         `gorm:"size:20;not null;index:idx_booking_listing" json:"listing_kind"` // PROPERTY | EVENT
	ListingID            uint           `gorm:"not null;index:idx_booking_listing" json:"listing_id"`
	RequesterID          uint           `gorm:"not null;index" json:"requester_id"`
	OwnerID              uint           `gorm:"not null;index" json:"owner_id"`
	OwnerKind            string         `gorm:"size:20;not null" json:"owner_kind"` // PLATFORM | INDIVIDUAL
	StartDate            *time.Time     `gorm:"index" json:"start_date"`            // property bookings only
	EndDate              *time.Time     `gorm:"index" json:"end_date"`
	Quantity             int            `gorm:"not null;default:0" json:"quantity"` // event bookings only
	GrossAmountCents     int64          `gorm:"not null;default:0" json:"gross_amount_cents"`
	SecurityDepositCents int64          `gorm:"not null;default:0" json:"security_deposit_cents"`
	Status               string         `gorm:"size:20;not null;index:idx_booking_listing;index" json:"status"`
	IsCancellable        bool           `gorm:"not null;default:true" json:"is_cancellable"`
	CanceledBy           *uint          `json:"canceled_by,omitempty"`
	ConfirmedAt          *time.Time     `json:"confirmed_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) IsTerminal() bool {
	return b.Status == domain.BookingCompleted || b.Status == domain.BookingCanceled
}

// Overlaps reports whether the booking's half-open [start, end) window
// intersects the given one. Quantity-pool bookings carry no window and never
// overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	if b.StartDate == nil || b.EndDate == nil {
		return false
	}
	return b.StartDate.Before(end) && b.EndDate.After(start)
}
