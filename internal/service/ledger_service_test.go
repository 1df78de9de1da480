package service

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/domain"
	"stayhub/internal/models"
)

func hostBooking(gross int64) *models.Booking {
	return &models.Booking{
		ID:               1,
		Ticket:           "tkt-host-1",
		ListingKind:      domain.ListingKindProperty,
		ListingID:        10,
		RequesterID:      100,
		OwnerID:          200,
		OwnerKind:        domain.OwnerIndividual,
		GrossAmountCents: gross,
		Status:           domain.BookingConfirmed,
	}
}

func TestPostBookingIndividualOwnerSplit(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, revenue := newTestLedgerService(settings, users)

	b := hostBooking(100000) // $1000
	if err := svc.PostBooking(context.Background(), b, domain.DirectionApply); err != nil {
		t.Fatalf("PostBooking: %v", err)
	}

	if len(ledger.entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(ledger.entries))
	}
	if wallets.total[200] != 90000 || wallets.available[200] != 90000 {
		t.Fatalf("host wallet got total=%d available=%d, want 90000/90000", wallets.total[200], wallets.available[200])
	}
	if revenue.deltas.BookingCents != 10000 || revenue.deltas.PercentCents != 10000 {
		t.Fatalf("platform rollup got booking=%d percent=%d, want 10000/10000", revenue.deltas.BookingCents, revenue.deltas.PercentCents)
	}
	if sum := ledger.sumForRef(b.Ticket); sum != 100000 {
		t.Fatalf("ledger total for booking = %d, want gross 100000", sum)
	}
}

func TestPostBookingPlatformOwnerKeepsFullGross(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{}}
	svc, ledger, wallets, revenue := newTestLedgerService(settings, users)

	b := hostBooking(50000)
	b.OwnerKind = domain.OwnerPlatform
	if err := svc.PostBooking(context.Background(), b, domain.DirectionApply); err != nil {
		t.Fatalf("PostBooking: %v", err)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("expected single ledger entry for platform listing, got %d", len(ledger.entries))
	}
	if len(wallets.total) != 0 {
		t.Fatalf("platform listing must not credit any wallet")
	}
	if revenue.deltas.BookingCents != 50000 || revenue.deltas.PercentCents != 0 {
		t.Fatalf("rollup got booking=%d percent=%d, want 50000/0", revenue.deltas.BookingCents, revenue.deltas.PercentCents)
	}
}

func TestPostBookingIdempotent(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, _ := newTestLedgerService(settings, users)

	b := hostBooking(100000)
	if err := svc.PostBooking(context.Background(), b, domain.DirectionApply); err != nil {
		t.Fatalf("first post: %v", err)
	}
	err := svc.PostBooking(context.Background(), b, domain.DirectionApply)
	if !errors.Is(err, ErrAlreadyPosted) {
		t.Fatalf("second post: got %v, want ErrAlreadyPosted", err)
	}
	if len(ledger.entries) != 2 {
		t.Fatalf("duplicate post changed the ledger: %d entries", len(ledger.entries))
	}
	if wallets.total[200] != 90000 {
		t.Fatalf("duplicate post changed the wallet: %d", wallets.total[200])
	}
}

func TestPostBookingReversalSymmetry(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, wallets, revenue := newTestLedgerService(settings, users)

	b := hostBooking(100000)
	ctx := context.Background()
	if err := svc.PostBooking(ctx, b, domain.DirectionApply); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := svc.PostBooking(ctx, b, domain.DirectionReverse); err != nil {
		t.Fatalf("reverse: %v", err)
	}

	if sum := ledger.sumForRef(b.Ticket); sum != 0 {
		t.Fatalf("apply+reverse should net to zero, got %d", sum)
	}
	if wallets.total[200] != 0 || wallets.available[200] != 0 {
		t.Fatalf("host wallet not restored: total=%d available=%d", wallets.total[200], wallets.available[200])
	}
	if revenue.deltas.BookingCents != 0 || revenue.deltas.PercentCents != 0 {
		t.Fatalf("rollup not restored: booking=%d percent=%d", revenue.deltas.BookingCents, revenue.deltas.PercentCents)
	}
	if len(ledger.entries) != 4 {
		t.Fatalf("reversal must append, not delete: got %d entries, want 4", len(ledger.entries))
	}
}

func TestPostBookingMissingRecipient(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{}} // owner 200 missing
	svc, ledger, _, _ := newTestLedgerService(settings, users)

	err := svc.PostBooking(context.Background(), hostBooking(100000), domain.DirectionApply)
	if !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("got %v, want ErrRecipientNotFound", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("no entries should post when the recipient is missing")
	}
}

func TestPostBookingCommissionReadAtPostTime(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, _, wallets, _ := newTestLedgerService(settings, users)

	ctx := context.Background()
	b := hostBooking(100000)
	if err := svc.PostBooking(ctx, b, domain.DirectionApply); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// Commission changes between apply and reverse. The reversal uses the
	// new rate; posted history is never rewritten.
	settings.commission = "20"
	if err := svc.PostBooking(ctx, b, domain.DirectionReverse); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	// apply credited 90000, reverse debited 80000
	if wallets.total[200] != 10000 {
		t.Fatalf("wallet = %d, want 10000 (new rate on reversal)", wallets.total[200])
	}
}

func TestPostSubscriptionAndFeature(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{200: true}}
	svc, ledger, _, revenue := newTestLedgerService(settings, users)

	ctx := context.Background()
	if err := svc.PostSubscription(ctx, 200, "sub-1", 1999); err != nil {
		t.Fatalf("PostSubscription: %v", err)
	}
	if err := svc.PostFeature(ctx, 200, "feat-1", 499); err != nil {
		t.Fatalf("PostFeature: %v", err)
	}
	if revenue.deltas.SubscriptionCents != 1999 || revenue.deltas.FeatureCents != 499 {
		t.Fatalf("rollup got sub=%d feat=%d", revenue.deltas.SubscriptionCents, revenue.deltas.FeatureCents)
	}
	if err := svc.PostSubscription(ctx, 200, "sub-1", 1999); !errors.Is(err, ErrAlreadyPosted) {
		t.Fatalf("duplicate subscription post: got %v, want ErrAlreadyPosted", err)
	}
	if len(ledger.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ledger.entries))
	}
}

func TestRecordDiscrepancy(t *testing.T) {
	settings := &fakeSettings{commission: "10"}
	users := &fakeUsers{known: map[uint]bool{}}
	svc, ledger, _, _ := newTestLedgerService(settings, users)

	svc.RecordDiscrepancy("tkt-x", domain.DirectionApply, ErrRecipientNotFound)
	if len(ledger.discrepancies) != 1 {
		t.Fatalf("expected a discrepancy row, got %d", len(ledger.discrepancies))
	}
	d := ledger.discrepancies[0]
	if d.SourceRef != "tkt-x" || d.Direction != domain.DirectionApply {
		t.Fatalf("unexpected discrepancy: %+v", d)
	}
}
