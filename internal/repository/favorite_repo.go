package repository

import (
	"stayhub/internal/models"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(userID uint, listingKind string, listingID uint) error {
	fav := &models.Favorite{UserID: userID, ListingKind: listingKind, ListingID: listingID}
	return r.db.Create(fav).Error
}

func (r *FavoriteRepository) Remove(userID uint, listingKind string, listingID uint) error {
	return r.db.Where("user_id = ? AND listing_kind = ? AND listing_id = ?", userID, listingKind, listingID).
		Delete(&models.Favorite{}).Error
}

func (r *FavoriteRepository) ListByUser(userID uint, limit, offset int) ([]models.Favorite, error) {
	var list []models.Favorite
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
