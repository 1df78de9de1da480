package repository

import (
	"context"
	"time"

	"stayhub/internal/models"

	"gorm.io/gorm"
)

type RevenueRepository struct {
	db  *gorm.DB
	loc *time.Location
}

func NewRevenueRepository(db *gorm.DB, loc *time.Location) *RevenueRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &RevenueRepository{db: db, loc: loc}
}

// DayIn returns midnight of t's calendar date in loc. Rollup rows and ledger
// entries bucket through this one function so a posting near midnight lands
// in a single day; truncating the absolute timestamp instead would bucket at
// UTC midnight no matter which timezone the platform reports in.
func DayIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// PeriodDeltas carries the signed bucket increments for one posting.
type PeriodDeltas struct {
	BookingCents      int64
	PercentCents      int64
	SubscriptionCents int64
	FeatureCents      int64
}

func (d PeriodDeltas) total() int64 {
	return d.BookingCents + d.PercentCents + d.SubscriptionCents + d.FeatureCents
}

// Add applies the deltas to the rollup row for the given date, creating the
// row when absent. Increments are atomic SQL expressions; reversals pass
// negative deltas.
func (r *RevenueRepository) Add(ctx context.Context, periodDate time.Time, d PeriodDeltas) error {
	day := DayIn(periodDate, r.loc)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RevenuePeriod{}).Where("period_date = ?", day).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Create(&models.RevenuePeriod{PeriodDate: day}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.RevenuePeriod{}).
			Where("period_date = ?", day).
			Updates(map[string]interface{}{
				"total_booking_revenue_cents":      gorm.Expr("total_booking_revenue_cents + ?", d.BookingCents),
				"total_percent_revenue_cents":      gorm.Expr("total_percent_revenue_cents + ?", d.PercentCents),
				"total_subscription_revenue_cents": gorm.Expr("total_subscription_revenue_cents + ?", d.SubscriptionCents),
				"total_feature_revenue_cents":      gorm.Expr("total_feature_revenue_cents + ?", d.FeatureCents),
				"total_revenue_cents":              gorm.Expr("total_revenue_cents + ?", d.total()),
			}).Error
	})
}

func (r *RevenueRepository) GetByDate(ctx context.Context, periodDate time.Time) (*models.RevenuePeriod, error) {
	var p models.RevenuePeriod
	err := r.db.WithContext(ctx).Where("period_date = ?", DayIn(periodDate, r.loc)).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RevenueRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.RevenuePeriod, error) {
	var list []models.RevenuePeriod
	err := r.db.WithContext(ctx).
		Where("period_date >= ? AND period_date <= ?", from, to).
		Order("period_date ASC").Find(&list).Error
	return list, err
}
