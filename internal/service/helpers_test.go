package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"gorm.io/gorm"
)

// fakeBookingStore is an in-memory stand-in for the booking repository. Its
// mutations carry the same state predicates as the SQL they replace, so the
// tests exercise the real idempotency behavior.
type fakeBookingStore struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{nextID: 1, bookings: make(map[uint]*models.Booking)}
}

func (f *fakeBookingStore) add(b *models.Booking) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	if b.Ticket == "" {
		b.Ticket = fmt.Sprintf("tkt-%d", b.ID)
	}
	b.UpdatedAt = time.Now()
	f.bookings[b.ID] = b
	return b
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ConfirmPending(_ context.Context, id uint, grossCents int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.BookingPending || b.GrossAmountCents != 0 {
		return false, nil
	}
	b.Status = domain.BookingConfirmed
	b.GrossAmountCents = grossCents
	b.ConfirmedAt = &now
	return true, nil
}

func (f *fakeBookingStore) MarkCanceled(_ context.Context, id uint, from []string, byUserID *uint, requireCancellable bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	inFrom := false
	for _, s := range from {
		if b.Status == s {
			inFrom = true
		}
	}
	if !inFrom || (requireCancellable && !b.IsCancellable) {
		return false, nil
	}
	b.Status = domain.BookingCanceled
	b.CanceledBy = byUserID
	return true, nil
}

func (f *fakeBookingStore) MarkActive(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.BookingConfirmed {
		return false, nil
	}
	b.Status = domain.BookingActive
	return true, nil
}

func (f *fakeBookingStore) MarkCompleted(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != domain.BookingActive {
		return false, nil
	}
	b.Status = domain.BookingCompleted
	b.IsCancellable = false
	return true, nil
}

func (f *fakeBookingStore) HasOtherNonTerminal(_ context.Context, listingKind string, listingID, excludeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == excludeID || b.ListingKind != listingKind || b.ListingID != listingID {
			continue
		}
		if !b.IsTerminal() {
			return true, nil
		}
	}
	return false, nil
}

// SweepSource

func (f *fakeBookingStore) ListConfirmedDueForActivation(_ context.Context, now time.Time, limit int) ([]models.Booking, error) {
	return f.list(limit, func(b *models.Booking) bool {
		return b.Status == domain.BookingConfirmed && b.StartDate != nil && !b.StartDate.After(now)
	}), nil
}

func (f *fakeBookingStore) ListActiveDueForCompletion(_ context.Context, now time.Time, limit int) ([]models.Booking, error) {
	return f.list(limit, func(b *models.Booking) bool {
		return b.Status == domain.BookingActive && b.EndDate != nil && !b.EndDate.After(now)
	}), nil
}

func (f *fakeBookingStore) LockCancellationWindow(_ context.Context, lockBefore time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.Status == domain.BookingConfirmed && b.IsCancellable &&
			b.StartDate != nil && b.StartDate.Before(lockBefore) {
			b.IsCancellable = false
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingStore) ListStalePending(_ context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	return f.list(limit, func(b *models.Booking) bool {
		return b.Status == domain.BookingPending && !b.UpdatedAt.After(cutoff)
	}), nil
}

func (f *fakeBookingStore) list(limit int, match func(*models.Booking) bool) []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if match(b) {
			out = append(out, *b)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// fakeLedgerStore keeps appended entries and enforces the
// (source, category, direction) dedupe the unique index provides.
type fakeLedgerStore struct {
	mu            sync.Mutex
	entries       []models.LedgerEntry
	discrepancies []models.Discrepancy
}

func (f *fakeLedgerStore) Append(_ context.Context, entries []models.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		for _, have := range f.entries {
			if have.SourceRef == e.SourceRef && have.Category == e.Category && have.Direction == e.Direction {
				return repository.ErrDuplicateEntry
			}
		}
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeLedgerStore) CreateDiscrepancy(d *models.Discrepancy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discrepancies = append(f.discrepancies, *d)
	return nil
}

func (f *fakeLedgerStore) sumForRef(ref string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, e := range f.entries {
		if e.SourceRef == ref {
			sum += e.AmountCents
		}
	}
	return sum
}

type fakeWalletStore struct {
	mu        sync.Mutex
	total     map[uint]int64
	available map[uint]int64
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{total: make(map[uint]int64), available: make(map[uint]int64)}
}

func (f *fakeWalletStore) AddRevenue(_ context.Context, userID uint, totalDelta, availableDelta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total[userID] += totalDelta
	f.available[userID] += availableDelta
	return nil
}

type fakeRevenueStore struct {
	mu     sync.Mutex
	deltas repository.PeriodDeltas
}

func (f *fakeRevenueStore) Add(_ context.Context, _ time.Time, d repository.PeriodDeltas) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas.BookingCents += d.BookingCents
	f.deltas.PercentCents += d.PercentCents
	f.deltas.SubscriptionCents += d.SubscriptionCents
	f.deltas.FeatureCents += d.FeatureCents
	return nil
}

type fakeSettings struct {
	commission string
	lockHours  int
	staleMins  int
}

func (f *fakeSettings) CommissionPercent() string    { return f.commission }
func (f *fakeSettings) CancellationLockHours() int   { return f.lockHours }
func (f *fakeSettings) PendingStalenessMinutes() int { return f.staleMins }

type fakeUsers struct {
	known map[uint]bool
}

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	if f.known[id] {
		return &models.User{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeNotifier struct {
	confirmed, canceled, active, completed int
}

func (f *fakeNotifier) NotifyBookingConfirmed(*models.Booking)       { f.confirmed++ }
func (f *fakeNotifier) NotifyBookingCanceled(*models.Booking, *uint) { f.canceled++ }
func (f *fakeNotifier) NotifyBookingActive(*models.Booking)          { f.active++ }
func (f *fakeNotifier) NotifyBookingCompleted(*models.Booking)       { f.completed++ }

type fakePropertyMarker struct {
	booked map[uint]bool
}

func newFakePropertyMarker() *fakePropertyMarker {
	return &fakePropertyMarker{booked: make(map[uint]bool)}
}

func (f *fakePropertyMarker) SetBooked(_ context.Context, id uint, booked bool) error {
	f.booked[id] = booked
	return nil
}

type fakePaymentStore struct {
	payments []models.Payment
}

func (f *fakePaymentStore) Create(p *models.Payment) error {
	for _, have := range f.payments {
		if have.MethodRef == p.MethodRef {
			return repository.ErrDuplicateMethodRef
		}
	}
	f.payments = append(f.payments, *p)
	return nil
}

// newTestLedgerService wires a LedgerService over fresh fakes.
func newTestLedgerService(settings *fakeSettings, users *fakeUsers) (*LedgerService, *fakeLedgerStore, *fakeWalletStore, *fakeRevenueStore) {
	ledgerStore := &fakeLedgerStore{}
	wallets := newFakeWalletStore()
	revenue := &fakeRevenueStore{}
	svc := NewLedgerService(ledgerStore, wallets, revenue, settings, users, time.UTC)
	return svc, ledgerStore, wallets, revenue
}

// newTestBookingService builds the full service stack over fakes.
func newTestBookingService(store *fakeBookingStore, settings *fakeSettings, users *fakeUsers) (*BookingService, *fakeLedgerStore, *fakeWalletStore, *fakeRevenueStore, *fakeNotifier, *fakePropertyMarker) {
	ledgerSvc, ledgerStore, wallets, revenue := newTestLedgerService(settings, users)
	notifier := &fakeNotifier{}
	properties := newFakePropertyMarker()
	svc := NewBookingService(store, properties, &fakePaymentStore{}, ledgerSvc, notifier, nil)
	return svc, ledgerStore, wallets, revenue, notifier, properties
}
