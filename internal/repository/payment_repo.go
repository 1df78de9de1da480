package repository

import (
	"errors"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateMethodRef signals a replayed confirmation payload.
var ErrDuplicateMethodRef = errors.New("payment method reference already recorded")

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	err := r.db.Create(p).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateMethodRef
	}
	return err
}

func (r *PaymentRepository) GetByBookingID(bookingID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
