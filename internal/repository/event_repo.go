package repository

import (
	"context"
	"time"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.Event) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).Preload("Photos").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Update(e *models.Event) error {
	return r.db.Save(e).Error
}

// List returns upcoming bookable events, featured listings first.
func (r *EventRepository) List(city string, after time.Time, limit, offset int) ([]models.Event, error) {
	var list []models.Event
	q := r.db.Where("is_bookable = ? AND starts_at > ?", true, after)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Preload("Photos").
		Order("featured_until IS NULL, featured_until DESC, starts_at ASC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *EventRepository) ListByOwner(ownerID uint, limit, offset int) ([]models.Event, error) {
	var list []models.Event
	err := r.db.Where("owner_id = ?", ownerID).Preload("Photos").
		Order("starts_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *EventRepository) SetFeaturedUntil(ctx context.Context, id uint, until time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Update("featured_until", until).Error
}
