package service

import (
	"context"
	"errors"
	"log"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyConfirmed       = errors.New("booking already confirmed")
	ErrCancellationLocked     = errors.New("cancellation window is locked")
	ErrNotYourBooking         = errors.New("booking belongs to another user")
	ErrInvalidAmount          = errors.New("invalid payment amount")
)

// BookingStore is the slice of the booking repository the state machine
// drives. Every mutation is predicated on the current state, which is what
// makes transitions idempotent under retries and concurrent sweeps.
type BookingStore interface {
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	ConfirmPending(ctx context.Context, id uint, grossCents int64, now time.Time) (bool, error)
	MarkCanceled(ctx context.Context, id uint, from []string, byUserID *uint, requireCancellable bool) (bool, error)
	MarkActive(ctx context.Context, id uint) (bool, error)
	MarkCompleted(ctx context.Context, id uint) (bool, error)
	HasOtherNonTerminal(ctx context.Context, listingKind string, listingID, excludeID uint) (bool, error)
}

type PropertyMarker interface {
	SetBooked(ctx context.Context, id uint, booked bool) error
}

type PaymentStore interface {
	Create(p *models.Payment) error
}

// BookingNotifier is the external notification surface. Implementations are
// fire-and-forget; failures are logged by the implementation, never
// propagated into a state transition.
type BookingNotifier interface {
	NotifyBookingConfirmed(b *models.Booking)
	NotifyBookingCanceled(b *models.Booking, byUserID *uint)
	NotifyBookingActive(b *models.Booking)
	NotifyBookingCompleted(b *models.Booking)
}

// EventPublisher emits booking domain events to the message exchange.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// ConfirmInput is the trusted payment-confirmation payload. This system does
// not call a payment processor.
type ConfirmInput struct {
	AmountCents int64
	MethodRef   string
}

// BookingService owns the canonical booking lifecycle:
// PENDING -> CONFIRMED -> ACTIVE -> COMPLETED, with PENDING|CONFIRMED ->
// CANCELED, over both listing kinds.
type BookingService struct {
	bookings   BookingStore
	properties PropertyMarker
	payments   PaymentStore
	ledger     *LedgerService
	notifier   BookingNotifier
	publisher  EventPublisher
	now        func() time.Time
}

func NewBookingService(bookings BookingStore, properties PropertyMarker, payments PaymentStore, ledger *LedgerService, notifier BookingNotifier, publisher EventPublisher) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		payments:   payments,
		ledger:     ledger,
		notifier:   notifier,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Confirm moves a pending booking to CONFIRMED with the payload amount as
// gross, then posts the revenue split. Duplicate confirmation calls get
// ErrAlreadyConfirmed and post nothing. A ledger failure after the
// transition committed is logged as a discrepancy; the confirmation itself
// still succeeds, since from the requester's view the booking is confirmed.
func (s *BookingService) Confirm(ctx context.Context, id uint, in ConfirmInput) (*models.Booking, error) {
	if in.AmountCents <= 0 || in.MethodRef == "" {
		return nil, ErrInvalidAmount
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	ok, err := s.bookings.ConfirmPending(ctx, id, in.AmountCents, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Nothing matched the pending predicate: either a duplicate confirm
		// or a transition that is simply not legal from the current state.
		current, rerr := s.bookings.GetByID(ctx, id)
		if rerr != nil {
			return nil, rerr
		}
		if current.GrossAmountCents > 0 && current.Status != domain.BookingCanceled {
			return nil, ErrAlreadyConfirmed
		}
		return nil, ErrInvalidStateTransition
	}

	if err := s.payments.Create(&models.Payment{
		BookingID:   id,
		AmountCents: in.AmountCents,
		MethodRef:   in.MethodRef,
	}); err != nil && !errors.Is(err, repository.ErrDuplicateMethodRef) {
		log.Printf("[booking] recording payment for %s: %v", b.Ticket, err)
	}

	b, err = s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if perr := s.ledger.PostBooking(ctx, b, domain.DirectionApply); perr != nil && !errors.Is(perr, ErrAlreadyPosted) {
		s.ledger.RecordDiscrepancy(b.Ticket, domain.DirectionApply, perr)
	}
	s.notifier.NotifyBookingConfirmed(b)
	s.publish(ctx, "booking.confirmed", b)
	return b, nil
}

// Cancel cancels a booking on behalf of the requester (or the platform).
// PENDING bookings cancel freely with no reversal; CONFIRMED ones require
// the cancellation window to still be open and trigger a reversing ledger
// post. ACTIVE and terminal bookings reject the transition.
func (s *BookingService) Cancel(ctx context.Context, id uint, byUserID *uint) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	switch b.Status {
	case domain.BookingPending:
		ok, err := s.bookings.MarkCanceled(ctx, id, []string{domain.BookingPending}, byUserID, false)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidStateTransition
		}
	case domain.BookingConfirmed:
		if !b.IsCancellable {
			return nil, ErrCancellationLocked
		}
		ok, err := s.bookings.MarkCanceled(ctx, id, []string{domain.BookingConfirmed}, byUserID, true)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the race against the lock sweep or a concurrent cancel.
			return nil, ErrCancellationLocked
		}
		if perr := s.ledger.PostBooking(ctx, b, domain.DirectionReverse); perr != nil && !errors.Is(perr, ErrAlreadyPosted) {
			s.ledger.RecordDiscrepancy(b.Ticket, domain.DirectionReverse, perr)
		}
	default:
		return nil, ErrInvalidStateTransition
	}

	s.freePropertyIfIdle(ctx, b)
	b, err = s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.NotifyBookingCanceled(b, byUserID)
	s.publish(ctx, "booking.canceled", b)
	return b, nil
}

// Activate is the sweep's CONFIRMED -> ACTIVE transition for one booking.
func (s *BookingService) Activate(ctx context.Context, b *models.Booking) error {
	ok, err := s.bookings.MarkActive(ctx, b.ID)
	if err != nil || !ok {
		return err
	}
	if b.ListingKind == domain.ListingKindProperty {
		if err := s.properties.SetBooked(ctx, b.ListingID, true); err != nil {
			log.Printf("[booking] marking property %d booked: %v", b.ListingID, err)
		}
	}
	s.notifier.NotifyBookingActive(b)
	s.publish(ctx, "booking.activated", b)
	return nil
}

// Complete is the sweep's ACTIVE -> COMPLETED transition for one booking.
func (s *BookingService) Complete(ctx context.Context, b *models.Booking) error {
	ok, err := s.bookings.MarkCompleted(ctx, b.ID)
	if err != nil || !ok {
		return err
	}
	s.freePropertyIfIdle(ctx, b)
	s.notifier.NotifyBookingCompleted(b)
	s.publish(ctx, "booking.completed", b)
	return nil
}

// PurgePending cancels a stale PENDING booking, releasing its tentative
// hold on the listing window or ticket pool.
func (s *BookingService) PurgePending(ctx context.Context, b *models.Booking) error {
	ok, err := s.bookings.MarkCanceled(ctx, b.ID, []string{domain.BookingPending}, nil, false)
	if err != nil || !ok {
		return err
	}
	s.publish(ctx, "booking.purged", b)
	return nil
}

// freePropertyIfIdle clears the property's booked flag once no other
// non-terminal booking holds it.
func (s *BookingService) freePropertyIfIdle(ctx context.Context, b *models.Booking) {
	if b.ListingKind != domain.ListingKindProperty {
		return
	}
	held, err := s.bookings.HasOtherNonTerminal(ctx, b.ListingKind, b.ListingID, b.ID)
	if err != nil {
		log.Printf("[booking] checking listing %d occupancy: %v", b.ListingID, err)
		return
	}
	if !held {
		if err := s.properties.SetBooked(ctx, b.ListingID, false); err != nil {
			log.Printf("[booking] freeing property %d: %v", b.ListingID, err)
		}
	}
}

func (s *BookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishJSON(ctx, key, map[string]any{
		"booking_id":   b.ID,
		"ticket":       b.Ticket,
		"listing_kind": b.ListingKind,
		"listing_id":   b.ListingID,
		"status":       b.Status,
	})
	if err != nil {
		log.Printf("[booking] publish %s for %s: %v", key, b.Ticket, err)
	}
}
