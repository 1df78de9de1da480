package repository

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWindowUnavailable    = errors.New("window unavailable")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByTicket(ctx context.Context, ticket string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).Where("ticket = ?", ticket).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).Where("requester_id = ?", requesterID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ReserveProperty inserts a PENDING property booking unless an existing
// non-terminal booking overlaps its half-open [start, end) window. The
// property row itself is locked first so reservations for one listing
// serialize even when its calendar is empty; without the parent lock a
// zero-row overlap check takes no row locks and two concurrent first
// bookings can both pass it.
func (r *BookingRepository) ReserveProperty(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Take(&listing, b.ListingID).Error; err != nil {
			return err
		}
		var existing models.Booking
		err := tx.Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_kind = ? AND listing_id = ? AND status IN ?",
				domain.ListingKindProperty, b.ListingID, domain.NonTerminalStatuses).
			Where("start_date < ? AND end_date > ?", b.EndDate, b.StartDate).
			Take(&existing).Error
		if err == nil {
			return ErrWindowUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(b).Error
	})
}

// ReserveEventSeats inserts a PENDING event booking unless the requested
// quantity exceeds the capacity remaining after all non-terminal bookings.
// Pending bookings count against capacity; the stale-pending purge returns
// it. The event row is locked first so concurrent purchases serialize per
// event regardless of how many booking rows the SUM happens to scan.
func (r *BookingRepository) ReserveEventSeats(ctx context.Context, b *models.Booking, totalCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Take(&listing, b.ListingID).Error; err != nil {
			return err
		}
		var reserved int64
		err := tx.Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("listing_kind = ? AND listing_id = ? AND status IN ?",
				domain.ListingKindEvent, b.ListingID, domain.NonTerminalStatuses).
			Select("COALESCE(SUM(quantity), 0)").
			Scan(&reserved).Error
		if err != nil {
			return err
		}
		if reserved+int64(b.Quantity) > int64(totalCapacity) {
			return ErrInsufficientCapacity
		}
		return tx.Create(b).Error
	})
}

// ConfirmPending flips a PENDING booking to CONFIRMED and sets the gross
// amount, guarded by the current-state predicate. Returns false when no row
// matched, meaning the booking was not pending or already carries a gross
// amount.
func (r *BookingRepository) ConfirmPending(ctx context.Context, id uint, grossCents int64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ? AND gross_amount_cents = 0", id, domain.BookingPending).
		Updates(map[string]interface{}{
			"status":             domain.BookingConfirmed,
			"gross_amount_cents": grossCents,
			"confirmed_at":       now,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkCanceled transitions a booking to CANCELED when its current status is
// one of the given states. With requireCancellable set, the update also
// demands is_cancellable so a cancel racing the lock sweep loses cleanly.
func (r *BookingRepository) MarkCanceled(ctx context.Context, id uint, from []string, byUserID *uint, requireCancellable bool) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status IN ?", id, from)
	if requireCancellable {
		q = q.Where("is_cancellable = ?", true)
	}
	res := q.Updates(map[string]interface{}{
		"status":      domain.BookingCanceled,
		"canceled_by": byUserID,
	})
	return res.RowsAffected > 0, res.Error
}

// HasOtherNonTerminal reports whether any other booking still holds the
// listing. Used when freeing a property after completion or cancellation.
func (r *BookingRepository) HasOtherNonTerminal(ctx context.Context, listingKind string, listingID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("listing_kind = ? AND listing_id = ? AND id != ? AND status IN ?",
			listingKind, listingID, excludeID, domain.NonTerminalStatuses).
		Count(&count).Error
	return count > 0, err
}

// Scheduler queries. All of them are predicated on the current state so a
// rerun after a partial sweep failure is a no-op for already-moved rows.

func (r *BookingRepository) ListConfirmedDueForActivation(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date IS NOT NULL AND start_date <= ?", domain.BookingConfirmed, now).
		Limit(limit).Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListActiveDueForCompletion(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", domain.BookingActive, now).
		Limit(limit).Find(&list).Error
	return list, err
}

func (r *BookingRepository) MarkActive(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingConfirmed).
		Update("status", domain.BookingActive)
	return res.RowsAffected > 0, res.Error
}

func (r *BookingRepository) MarkCompleted(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingActive).
		Updates(map[string]interface{}{"status": domain.BookingCompleted, "is_cancellable": false})
	return res.RowsAffected > 0, res.Error
}

// LockCancellationWindow flips is_cancellable off for CONFIRMED bookings
// whose start falls inside the lock window. One-way: nothing ever sets the
// flag back.
func (r *BookingRepository) LockCancellationWindow(ctx context.Context, lockBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND is_cancellable = ? AND start_date IS NOT NULL AND start_date <= ?",
			domain.BookingConfirmed, true, lockBefore).
		Update("is_cancellable", false)
	return res.RowsAffected, res.Error
}

// ListStalePending returns PENDING bookings untouched since the cutoff.
func (r *BookingRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at <= ?", domain.BookingPending, cutoff).
		Limit(limit).Find(&list).Error
	return list, err
}
