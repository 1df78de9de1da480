package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"gorm.io/gorm"
)

type fakeListings struct {
	properties map[uint]*models.Property
	events     map[uint]*models.Event
}

func (f *fakeListings) GetByID(_ context.Context, id uint) (*models.Property, error) {
	if p, ok := f.properties[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEventGetter struct{ listings *fakeListings }

func (f *fakeEventGetter) GetByID(_ context.Context, id uint) (*models.Event, error) {
	if e, ok := f.listings.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeReservationStore mirrors the atomic check-and-insert the SQL layer
// provides: overlap detection for properties, seat accounting for events.
type fakeReservationStore struct {
	mu       sync.Mutex
	nextID   uint
	bookings []*models.Booking
}

func (f *fakeReservationStore) ReserveProperty(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, have := range f.bookings {
		if have.ListingKind != domain.ListingKindProperty || have.ListingID != b.ListingID || have.IsTerminal() {
			continue
		}
		if have.Overlaps(*b.StartDate, *b.EndDate) {
			return repository.ErrWindowUnavailable
		}
	}
	f.nextID++
	b.ID = f.nextID
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeReservationStore) ReserveEventSeats(_ context.Context, b *models.Booking, totalCapacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	taken := 0
	for _, have := range f.bookings {
		if have.ListingKind == domain.ListingKindEvent && have.ListingID == b.ListingID && !have.IsTerminal() {
			taken += have.Quantity
		}
	}
	if taken+b.Quantity > totalCapacity {
		return repository.ErrInsufficientCapacity
	}
	f.nextID++
	b.ID = f.nextID
	f.bookings = append(f.bookings, b)
	return nil
}

func newTestAvailability(now time.Time) (*AvailabilityService, *fakeListings, *fakeReservationStore) {
	listings := &fakeListings{
		properties: map[uint]*models.Property{
			10: {ID: 10, OwnerID: 200, OwnerKind: domain.OwnerIndividual, IsBookable: true, SecurityDepositCents: 5000},
		},
		events: map[uint]*models.Event{
			20: {
				ID: 20, OwnerID: 300, OwnerKind: domain.OwnerIndividual, IsBookable: true,
				StartsAt: now.Add(48 * time.Hour), EndsAt: now.Add(52 * time.Hour), TotalCapacity: 5,
			},
		},
	}
	store := &fakeReservationStore{}
	svc := NewAvailabilityService(listings, &fakeEventGetter{listings}, store)
	svc.now = func() time.Time { return now }
	return svc, listings, store
}

func propertyRequest(start, end time.Time) BookingRequest {
	return BookingRequest{
		ListingKind: domain.ListingKindProperty,
		ListingID:   10,
		RequesterID: 100,
		StartDate:   &start,
		EndDate:     &end,
	}
}

func TestReservePropertyCreatesPending(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestAvailability(now)

	b, err := svc.CheckAndReserve(context.Background(), propertyRequest(now.Add(24*time.Hour), now.Add(72*time.Hour)))
	if err != nil {
		t.Fatalf("CheckAndReserve: %v", err)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("status = %s, want PENDING", b.Status)
	}
	if b.Ticket == "" {
		t.Fatalf("ticket not generated")
	}
	if b.OwnerID != 200 || b.OwnerKind != domain.OwnerIndividual {
		t.Fatalf("owner snapshot wrong: id=%d kind=%s", b.OwnerID, b.OwnerKind)
	}
	if b.SecurityDepositCents != 5000 {
		t.Fatalf("deposit not copied from the property: %d", b.SecurityDepositCents)
	}
}

func TestReservePropertyRejectsOverlap(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestAvailability(now)
	ctx := context.Background()

	if _, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(24*time.Hour), now.Add(72*time.Hour))); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	_, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(48*time.Hour), now.Add(96*time.Hour)))
	if !errors.Is(err, ErrWindowUnavailable) {
		t.Fatalf("overlapping reserve: got %v, want ErrWindowUnavailable", err)
	}

	// Back-to-back on the checkout day is allowed: windows are half-open.
	if _, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(72*time.Hour), now.Add(120*time.Hour))); err != nil {
		t.Fatalf("adjacent reserve: %v", err)
	}
}

func TestReservePropertyValidatesWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, listings, _ := newTestAvailability(now)
	ctx := context.Background()

	if _, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(72*time.Hour), now.Add(24*time.Hour))); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("inverted window: got %v", err)
	}
	if _, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(-96*time.Hour), now.Add(-48*time.Hour))); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("past window: got %v", err)
	}
	listings.properties[10].IsBookable = false
	if _, err := svc.CheckAndReserve(ctx, propertyRequest(now.Add(24*time.Hour), now.Add(72*time.Hour))); !errors.Is(err, ErrListingNotBookable) {
		t.Fatalf("unbookable listing: got %v", err)
	}
}

func TestReserveEventSeats(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestAvailability(now)
	ctx := context.Background()
	req := BookingRequest{
		ListingKind: domain.ListingKindEvent,
		ListingID:   20,
		RequesterID: 100,
		Quantity:    3,
	}

	b, err := svc.CheckAndReserve(ctx, req)
	if err != nil {
		t.Fatalf("reserve 3 of 5: %v", err)
	}
	if b.StartDate == nil || b.EndDate == nil {
		t.Fatalf("event booking must inherit the event window")
	}

	req.Quantity = 2
	if _, err := svc.CheckAndReserve(ctx, req); err != nil {
		t.Fatalf("reserve remaining 2: %v", err)
	}
	req.Quantity = 1
	if _, err := svc.CheckAndReserve(ctx, req); !errors.Is(err, ErrInsufficientCapacity) {
		t.Fatalf("oversell: got %v, want ErrInsufficientCapacity", err)
	}
}

func TestReserveEventValidation(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, listings, _ := newTestAvailability(now)
	ctx := context.Background()
	req := BookingRequest{ListingKind: domain.ListingKindEvent, ListingID: 20, RequesterID: 100}

	if _, err := svc.CheckAndReserve(ctx, req); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: got %v", err)
	}
	req.Quantity = 1
	listings.events[20].StartsAt = now.Add(-time.Hour)
	if _, err := svc.CheckAndReserve(ctx, req); !errors.Is(err, ErrListingNotBookable) {
		t.Fatalf("started event: got %v", err)
	}
}

func TestConcurrentPropertyReservesAdmitOne(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, store := newTestAvailability(now)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckAndReserve(context.Background(), propertyRequest(now.Add(24*time.Hour), now.Add(72*time.Hour)))
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else if !errors.Is(err, ErrWindowUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("%d reserves won, want exactly 1", won)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("%d rows created, want 1", len(store.bookings))
	}
}
