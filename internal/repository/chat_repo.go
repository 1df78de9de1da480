package repository

import (
	"stayhub/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateMessage(m *models.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *ChatRepository) ListByBookingID(bookingID uint, limit, offset int) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	err := r.db.Where("booking_id = ?", bookingID).Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
