package repository

import (
	"context"
	"time"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(p *models.Property) error {
	return r.db.Create(p).Error
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).Preload("Photos").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) Update(p *models.Property) error {
	return r.db.Save(p).Error
}

// List returns bookable properties, featured listings first.
func (r *PropertyRepository) List(city string, limit, offset int) ([]models.Property, error) {
	var list []models.Property
	q := r.db.Where("is_bookable = ?", true)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	err := q.Preload("Photos").
		Order("featured_until IS NULL, featured_until DESC, created_at DESC").
		Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PropertyRepository) ListByOwner(ownerID uint, limit, offset int) ([]models.Property, error) {
	var list []models.Property
	err := r.db.Where("owner_id = ?", ownerID).Preload("Photos").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *PropertyRepository) SetBooked(ctx context.Context, id uint, booked bool) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Update("is_booked", booked).Error
}

func (r *PropertyRepository) SetFeaturedUntil(ctx context.Context, id uint, until time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Update("featured_until", until).Error
}

func (r *PropertyRepository) AddPhoto(photo *models.ListingPhoto) error {
	return r.db.Create(photo).Error
}
