package service

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrListingNotBookable   = errors.New("listing is not bookable")
	ErrWindowUnavailable    = errors.New("requested window unavailable")
	ErrInsufficientCapacity = errors.New("insufficient ticket capacity")
	ErrInvalidWindow        = errors.New("invalid booking window")
	ErrInvalidQuantity      = errors.New("invalid ticket quantity")
)

type PropertyGetter interface {
	GetByID(ctx context.Context, id uint) (*models.Property, error)
}

type EventGetter interface {
	GetByID(ctx context.Context, id uint) (*models.Event, error)
}

// ReservationStore is the slice of the booking repository the availability
// checker needs: atomic check-and-insert for both listing kinds.
type ReservationStore interface {
	ReserveProperty(ctx context.Context, b *models.Booking) error
	ReserveEventSeats(ctx context.Context, b *models.Booking, totalCapacity int) error
}

// BookingRequest is the inbound reservation ask.
type BookingRequest struct {
	ListingKind string
	ListingID   uint
	RequesterID uint
	StartDate   *time.Time // property
	EndDate     *time.Time
	Quantity    int // event
}

// AvailabilityService decides whether a listing can accept a booking request
// and, when it can, creates the PENDING row atomically with the check.
type AvailabilityService struct {
	properties PropertyGetter
	events     EventGetter
	bookings   ReservationStore
	now        func() time.Time
}

func NewAvailabilityService(properties PropertyGetter, events EventGetter, bookings ReservationStore) *AvailabilityService {
	return &AvailabilityService{properties: properties, events: events, bookings: bookings, now: time.Now}
}

// CheckAndReserve validates the request against the listing and inserts a
// PENDING booking. The overlap/capacity check and the insert run under the
// same row locks, so of N concurrent requests for one slot exactly one
// succeeds.
func (s *AvailabilityService) CheckAndReserve(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	switch req.ListingKind {
	case domain.ListingKindProperty:
		return s.reserveProperty(ctx, req)
	case domain.ListingKindEvent:
		return s.reserveEvent(ctx, req)
	default:
		return nil, ErrInvalidWindow
	}
}

func (s *AvailabilityService) reserveProperty(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if req.StartDate == nil || req.EndDate == nil || !req.StartDate.Before(*req.EndDate) {
		return nil, ErrInvalidWindow
	}
	if req.EndDate.Before(s.now()) {
		return nil, ErrInvalidWindow
	}
	p, err := s.properties.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotBookable
		}
		return nil, err
	}
	if !p.IsBookable {
		return nil, ErrListingNotBookable
	}
	b := newPendingBooking(req, p.OwnerID, p.OwnerKind)
	b.SecurityDepositCents = p.SecurityDepositCents
	if err := s.bookings.ReserveProperty(ctx, b); err != nil {
		if errors.Is(err, repository.ErrWindowUnavailable) {
			return nil, ErrWindowUnavailable
		}
		// Listing row gone between the bookable check and the reserve lock.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotBookable
		}
		return nil, err
	}
	return b, nil
}

func (s *AvailabilityService) reserveEvent(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	e, err := s.events.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotBookable
		}
		return nil, err
	}
	if !e.IsBookable || !e.StartsAt.After(s.now()) {
		return nil, ErrListingNotBookable
	}
	b := newPendingBooking(req, e.OwnerID, e.OwnerKind)
	// Event bookings inherit the event's window so the lifecycle sweep can
	// activate and complete them with the same date predicates as stays.
	start, end := e.StartsAt, e.EndsAt
	b.StartDate, b.EndDate = &start, &end
	if err := s.bookings.ReserveEventSeats(ctx, b, e.TotalCapacity); err != nil {
		if errors.Is(err, repository.ErrInsufficientCapacity) {
			return nil, ErrInsufficientCapacity
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotBookable
		}
		return nil, err
	}
	return b, nil
}

// newPendingBooking is the one place bookings are constructed. The ticket is
// generated here, once; the owner kind is fixed now and never re-derived.
func newPendingBooking(req BookingRequest, ownerID uint, ownerKind string) *models.Booking {
	return &models.Booking{
		Ticket:        uuid.NewString(),
		ListingKind:   req.ListingKind,
		ListingID:     req.ListingID,
		RequesterID:   req.RequesterID,
		OwnerID:       ownerID,
		OwnerKind:     ownerKind,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Quantity:      req.Quantity,
		Status:        domain.BookingPending,
		IsCancellable: true,
	}
}
