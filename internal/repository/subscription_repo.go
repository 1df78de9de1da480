package repository

import (
	"errors"
	"time"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

var ErrDuplicatePurchaseRef = errors.New("purchase ref already recorded")

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(s *models.HostSubscription) error {
	err := r.db.Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePurchaseRef
	}
	return err
}

func (r *SubscriptionRepository) GetActiveByUserID(userID uint, now time.Time) (*models.HostSubscription, error) {
	var s models.HostSubscription
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, now).
		Order("expires_at DESC").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) ListByUserID(userID uint, limit, offset int) ([]models.HostSubscription, error) {
	var subs []models.HostSubscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&subs).Error
	return subs, err
}
