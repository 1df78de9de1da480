package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatMessage is one message in a booking's conversation between the
// requester and the listing owner.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookingID uint           `gorm:"not null;index" json:"booking_id"`
	SenderID  uint           `gorm:"not null;index" json:"sender_id"`
	Content   string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
	Sender  User    `gorm:"foreignKey:SenderID" json:"-"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
