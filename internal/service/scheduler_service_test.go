package service

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
)

func newTestScheduler(store *fakeBookingStore, settings *fakeSettings, now time.Time) (*SchedulerService, *BookingService) {
	users := &fakeUsers{known: map[uint]bool{200: true}}
	bookings, _, _, _, _, _ := newTestBookingService(store, settings, users)
	sched := NewSchedulerService(store, bookings, settings, time.UTC)
	sched.now = func() time.Time { return now }
	return sched, bookings
}

func windowBooking(store *fakeBookingStore, status string, start, end time.Time) *models.Booking {
	return store.add(&models.Booking{
		ListingKind:   domain.ListingKindProperty,
		ListingID:     10,
		RequesterID:   100,
		OwnerID:       200,
		OwnerKind:     domain.OwnerIndividual,
		StartDate:     &start,
		EndDate:       &end,
		Status:        status,
		IsCancellable: true,
	})
}

func TestSweepActivatesDueBookings(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10", lockHours: 48, staleMins: 120}
	sched, _ := newTestScheduler(store, settings, now)

	due := windowBooking(store, domain.BookingConfirmed, now.Add(-time.Hour), now.Add(48*time.Hour))
	notDue := windowBooking(store, domain.BookingConfirmed, now.Add(72*time.Hour), now.Add(96*time.Hour))

	sched.Run(context.Background())

	got, _ := store.GetByID(context.Background(), due.ID)
	if got.Status != domain.BookingActive {
		t.Fatalf("due booking = %s, want ACTIVE", got.Status)
	}
	got, _ = store.GetByID(context.Background(), notDue.ID)
	if got.Status != domain.BookingConfirmed {
		t.Fatalf("future booking = %s, want CONFIRMED untouched", got.Status)
	}
}

func TestSweepCompletesEndedBookings(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10", lockHours: 48, staleMins: 120}
	sched, _ := newTestScheduler(store, settings, now)

	ended := windowBooking(store, domain.BookingActive, now.Add(-72*time.Hour), now.Add(-time.Hour))
	ongoing := windowBooking(store, domain.BookingActive, now.Add(-time.Hour), now.Add(24*time.Hour))

	sched.Run(context.Background())

	got, _ := store.GetByID(context.Background(), ended.ID)
	if got.Status != domain.BookingCompleted {
		t.Fatalf("ended booking = %s, want COMPLETED", got.Status)
	}
	got, _ = store.GetByID(context.Background(), ongoing.ID)
	if got.Status != domain.BookingActive {
		t.Fatalf("ongoing booking = %s, want ACTIVE untouched", got.Status)
	}
}

func TestSweepLocksCancellationInsideWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10", lockHours: 48, staleMins: 120}
	sched, _ := newTestScheduler(store, settings, now)

	soon := windowBooking(store, domain.BookingConfirmed, now.Add(24*time.Hour), now.Add(96*time.Hour))
	far := windowBooking(store, domain.BookingConfirmed, now.Add(72*time.Hour), now.Add(120*time.Hour))

	sched.Run(context.Background())

	got, _ := store.GetByID(context.Background(), soon.ID)
	if got.IsCancellable {
		t.Fatalf("booking starting in 24h should be locked under a 48h policy")
	}
	got, _ = store.GetByID(context.Background(), far.ID)
	if !got.IsCancellable {
		t.Fatalf("booking starting in 72h should stay cancellable")
	}
}

func TestSweepPurgesStalePending(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10", lockHours: 48, staleMins: 120}
	sched, _ := newTestScheduler(store, settings, now)

	stale := windowBooking(store, domain.BookingPending, now.Add(24*time.Hour), now.Add(48*time.Hour))
	fresh := windowBooking(store, domain.BookingPending, now.Add(24*time.Hour), now.Add(48*time.Hour))
	store.mu.Lock()
	store.bookings[stale.ID].UpdatedAt = now.Add(-121 * time.Minute)
	store.bookings[fresh.ID].UpdatedAt = now.Add(-30 * time.Minute)
	store.mu.Unlock()

	sched.Run(context.Background())

	got, _ := store.GetByID(context.Background(), stale.ID)
	if got.Status != domain.BookingCanceled {
		t.Fatalf("stale pending = %s, want CANCELED", got.Status)
	}
	got, _ = store.GetByID(context.Background(), fresh.ID)
	if got.Status != domain.BookingPending {
		t.Fatalf("fresh pending = %s, want PENDING untouched", got.Status)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10", lockHours: 48, staleMins: 120}
	sched, _ := newTestScheduler(store, settings, now)

	b := windowBooking(store, domain.BookingConfirmed, now.Add(-time.Hour), now.Add(48*time.Hour))

	sched.Run(context.Background())
	sched.Run(context.Background())

	got, _ := store.GetByID(context.Background(), b.ID)
	if got.Status != domain.BookingActive {
		t.Fatalf("booking = %s after double sweep, want ACTIVE", got.Status)
	}
}
