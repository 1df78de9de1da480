package repository

import (
	"context"
	"errors"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, Currency: "USD"}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// AddRevenue applies signed deltas to the host's balances with a single
// atomic UPDATE. Read-modify-write at the application layer would lose
// updates under concurrent postings.
func (r *WalletRepository) AddRevenue(ctx context.Context, userID uint, totalDelta, availableDelta int64) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_revenue_cents":     gorm.Expr("total_revenue_cents + ?", totalDelta),
			"available_revenue_cents": gorm.Expr("available_revenue_cents + ?", availableDelta),
		}).Error
}

// DebitAvailable deducts from available revenue when a withdrawal is
// initiated. The balance guard lives in the WHERE clause so a concurrent
// debit cannot push the wallet negative.
func (r *WalletRepository) DebitAvailable(ctx context.Context, userID uint, amountCents int64) error {
	res := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ? AND available_revenue_cents >= ?", userID, amountCents).
		Update("available_revenue_cents", gorm.Expr("available_revenue_cents - ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Withdrawals

func (r *WalletRepository) CreateWithdrawal(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WalletRepository) ListWithdrawals(userID uint, limit, offset int) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
