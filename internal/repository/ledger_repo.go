package repository

import (
	"context"
	"errors"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateEntry signals that an entry with the same
// (source_ref, category, direction) was already posted.
var ErrDuplicateEntry = errors.New("ledger entry already posted")

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append inserts the given entries in one transaction. The unique dedupe
// index rejects a repeat posting; in that case nothing is written and
// ErrDuplicateEntry is returned, so the caller can skip the balance
// increments that go with the batch.
func (r *LedgerRepository) Append(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEntry
	}
	return err
}

func (r *LedgerRepository) ListBySourceRef(ctx context.Context, sourceRef string) ([]models.LedgerEntry, error) {
	var list []models.LedgerEntry
	err := r.db.WithContext(ctx).Where("source_ref = ?", sourceRef).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *LedgerRepository) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.LedgerEntry, error) {
	var list []models.LedgerEntry
	err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Discrepancies

func (r *LedgerRepository) CreateDiscrepancy(d *models.Discrepancy) error {
	return r.db.Create(d).Error
}

func (r *LedgerRepository) ListOpenDiscrepancies(limit, offset int) ([]models.Discrepancy, error) {
	var list []models.Discrepancy
	err := r.db.Where("resolved_at IS NULL").Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *LedgerRepository) ResolveDiscrepancy(id uint) error {
	return r.db.Model(&models.Discrepancy{}).Where("id = ? AND resolved_at IS NULL", id).
		Update("resolved_at", gorm.Expr("NOW()")).Error
}
