package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OwnerID          uint           `gorm:"not null;index" json:"owner_id"`
	OwnerKind        string         `gorm:"size:20;not null" json:"owner_kind"` // PLATFORM | INDIVIDUAL
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Venue            string         `gorm:"size:512" json:"venue"`
	City             string         `gorm:"size:100;index" json:"city"`
	StartsAt         time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt           time.Time      `gorm:"not null" json:"ends_at"`
	TicketPriceCents int64          `gorm:"not null" json:"ticket_price_cents"`
	TotalCapacity    int            `gorm:"not null" json:"total_capacity"`
	IsBookable       bool           `gorm:"not null;default:true;index" json:"is_bookable"`
	FeaturedUntil    *time.Time     `json:"featured_until"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Owner  User           `gorm:"foreignKey:OwnerID" json:"-"`
	Photos []ListingPhoto `gorm:"polymorphic:Listing;polymorphicValue:EVENT" json:"photos,omitempty"`
}

func (Event) TableName() string { return "events" }

func (e *Event) IsFeatured(now time.Time) bool {
	return e.FeaturedUntil != nil && e.FeaturedUntil.After(now)
}
