package models

import (
	"time"

	"stayhub/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // USER | HOST | ADMIN
	Phone        string         `gorm:"size:20" json:"phone"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	FCMToken     string         `gorm:"size:512" json:"-"` // For push notifications
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsHost() bool  { return u.Role == domain.RoleHost }
func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
