package models

import (
	"time"

	"gorm.io/gorm"
)

type Property struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	OwnerID              uint           `gorm:"not null;index" json:"owner_id"`
	OwnerKind            string         `gorm:"size:20;not null" json:"owner_kind"` // PLATFORM | INDIVIDUAL
	Title                string         `gorm:"size:255;not null" json:"title"`
	Description          string         `gorm:"type:text" json:"description"`
	Address              string         `gorm:"size:512" json:"address"`
	City                 string         `gorm:"size:100;index" json:"city"`
	PricePerNightCents   int64          `gorm:"not null" json:"price_per_night_cents"`
	SecurityDepositCents int64          `gorm:"not null;default:0" json:"security_deposit_cents"`
	IsBookable           bool           `gorm:"not null;default:true;index" json:"is_bookable"`
	IsBooked             bool           `gorm:"not null;default:false" json:"is_booked"` // has a currently active stay
	FeaturedUntil        *time.Time     `json:"featured_until"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	Owner  User           `gorm:"foreignKey:OwnerID" json:"-"`
	Photos []ListingPhoto `gorm:"polymorphic:Listing;polymorphicValue:PROPERTY" json:"photos,omitempty"`
}

func (Property) TableName() string { return "properties" }

func (p *Property) IsFeatured(now time.Time) bool {
	return p.FeaturedUntil != nil && p.FeaturedUntil.After(now)
}

// ListingPhoto is a Cloudinary-hosted image attached to a property or event.
type ListingPhoto struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ListingID   uint           `gorm:"not null;index:idx_photo_listing" json:"listing_id"`
	ListingType string         `gorm:"size:20;not null;index:idx_photo_listing" json:"listing_type"`
	URL         string         `gorm:"size:512;not null" json:"url"`
	PublicID    string         `gorm:"size:255" json:"public_id"` // cloudinary public id, for deletion
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ListingPhoto) TableName() string { return "listing_photos" }
