package service

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/domain"
	"stayhub/internal/models"
)

func pendingBooking(store *fakeBookingStore) *models.Booking {
	return store.add(&models.Booking{
		Ticket:        "tkt-pending",
		ListingKind:   domain.ListingKindProperty,
		ListingID:     10,
		RequesterID:   100,
		OwnerID:       200,
		OwnerKind:     domain.OwnerIndividual,
		Status:        domain.BookingPending,
		IsCancellable: true,
	})
}

func TestConfirmMovesPendingToConfirmedAndPosts(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, _, notifier, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	got, err := svc.Confirm(context.Background(), b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.Status != domain.BookingConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", got.Status)
	}
	if got.GrossAmountCents != 100000 {
		t.Fatalf("gross = %d, want 100000", got.GrossAmountCents)
	}
	if got.ConfirmedAt == nil {
		t.Fatalf("confirmed_at not set")
	}
	if wallets.total[200] != 90000 {
		t.Fatalf("host wallet = %d, want 90000", wallets.total[200])
	}
	if len(ledger.entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(ledger.entries))
	}
	if notifier.confirmed != 1 {
		t.Fatalf("confirm notification sent %d times", notifier.confirmed)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"}); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"})
	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("second confirm: got %v, want ErrAlreadyConfirmed", err)
	}
	if wallets.total[200] != 90000 {
		t.Fatalf("duplicate confirm changed the wallet: %d", wallets.total[200])
	}
	if len(ledger.entries) != 2 {
		t.Fatalf("duplicate confirm changed the ledger: %d entries", len(ledger.entries))
	}
}

func TestConfirmValidatesInput(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, _, _, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	if _, err := svc.Confirm(context.Background(), b.ID, ConfirmInput{AmountCents: 0, MethodRef: "x"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), b.ID, ConfirmInput{AmountCents: 100, MethodRef: ""}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("empty ref: got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), 9999, ConfirmInput{AmountCents: 100, MethodRef: "x"}); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("missing booking: got %v", err)
	}
}

func TestConfirmCanceledBookingRejected(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, _, _, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Cancel(ctx, b.ID, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100, MethodRef: "x"})
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("confirm after cancel: got %v, want ErrInvalidStateTransition", err)
	}
}

func TestCancelPendingSkipsLedger(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, _, _, notifier, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	by := uint(100)
	got, err := svc.Cancel(context.Background(), b.ID, &by)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != domain.BookingCanceled {
		t.Fatalf("status = %s, want CANCELED", got.Status)
	}
	if got.CanceledBy == nil || *got.CanceledBy != 100 {
		t.Fatalf("canceled_by not recorded")
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("pending cancel must not touch the ledger")
	}
	if notifier.canceled != 1 {
		t.Fatalf("cancel notification sent %d times", notifier.canceled)
	}
}

func TestCancelConfirmedReversesLedger(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, err := svc.Cancel(ctx, b.ID, nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != domain.BookingCanceled {
		t.Fatalf("status = %s, want CANCELED", got.Status)
	}
	if wallets.total[200] != 0 {
		t.Fatalf("host wallet not reversed: %d", wallets.total[200])
	}
	if sum := ledger.sumForRef("tkt-pending"); sum != 0 {
		t.Fatalf("ledger not net zero after reversal: %d", sum)
	}
}

func TestCancelLockedBookingRejected(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, _, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	store.mu.Lock()
	store.bookings[b.ID].IsCancellable = false
	store.mu.Unlock()

	_, err := svc.Cancel(ctx, b.ID, nil)
	if !errors.Is(err, ErrCancellationLocked) {
		t.Fatalf("got %v, want ErrCancellationLocked", err)
	}
	if sum := ledger.sumForRef("tkt-pending"); sum != 100000 {
		t.Fatalf("rejected cancel must leave the posting intact, sum=%d", sum)
	}
}

func TestCancelActiveRejected(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, _, _, _, _, _ := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	loaded, _ := store.GetByID(ctx, b.ID)
	if err := svc.Activate(ctx, loaded); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := svc.Cancel(ctx, b.ID, nil); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("cancel of active booking: got %v, want ErrInvalidStateTransition", err)
	}
}

func TestActivateAndCompleteMarkProperty(t *testing.T) {
	store := newFakeBookingStore()
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, _, _, _, notifier, properties := newTestBookingService(store, settings, users)

	b := pendingBooking(store)
	ctx := context.Background()
	if _, err := svc.Confirm(ctx, b.ID, ConfirmInput{AmountCents: 100000, MethodRef: "pay-1"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	loaded, _ := store.GetByID(ctx, b.ID)
	if err := svc.Activate(ctx, loaded); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !properties.booked[10] {
		t.Fatalf("property not marked booked on activation")
	}
	loaded, _ = store.GetByID(ctx, b.ID)
	if err := svc.Complete(ctx, loaded); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if properties.booked[10] {
		t.Fatalf("property not freed after completion")
	}
	loaded, _ = store.GetByID(ctx, b.ID)
	if loaded.Status != domain.BookingCompleted || loaded.IsCancellable {
		t.Fatalf("completed booking: status=%s cancellable=%v", loaded.Status, loaded.IsCancellable)
	}
	if notifier.active != 1 || notifier.completed != 1 {
		t.Fatalf("notifications: active=%d completed=%d", notifier.active, notifier.completed)
	}
}
