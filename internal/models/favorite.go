package models

import (
	"time"

	"gorm.io/gorm"
)

// Favorite marks a listing saved by a user.
type Favorite struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index:idx_fav_user_listing,unique" json:"user_id"`
	ListingKind string         `gorm:"size:20;not null;index:idx_fav_user_listing,unique" json:"listing_kind"`
	ListingID   uint           `gorm:"not null;index:idx_fav_user_listing,unique" json:"listing_id"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Favorite) TableName() string { return "favorites" }
