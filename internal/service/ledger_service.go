package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/models"
	"stayhub/internal/repository"
)

var (
	// ErrAlreadyPosted means the (source, direction) pair was posted before;
	// balances are untouched by the repeat call.
	ErrAlreadyPosted = errors.New("ledger already posted for this source and direction")
	// ErrRecipientNotFound means the credited owner record is missing. The
	// caller must not fail its state transition; it records a discrepancy.
	ErrRecipientNotFound = errors.New("ledger recipient not found")
)

type LedgerStore interface {
	Append(ctx context.Context, entries []models.LedgerEntry) error
	CreateDiscrepancy(d *models.Discrepancy) error
}

type WalletStore interface {
	AddRevenue(ctx context.Context, userID uint, totalDelta, availableDelta int64) error
}

type RevenueStore interface {
	Add(ctx context.Context, periodDate time.Time, d repository.PeriodDeltas) error
}

type SettingsProvider interface {
	CommissionPercent() string
	CancellationLockHours() int
	PendingStalenessMinutes() int
}

type UserGetter interface {
	GetByID(id uint) (*models.User, error)
}

// LedgerService posts signed revenue movements: host wallet credits, the
// platform's per-date rollup, and the append-only ledger entries that make a
// posting observable and deduplicable.
type LedgerService struct {
	ledger   LedgerStore
	wallets  WalletStore
	revenue  RevenueStore
	settings SettingsProvider
	users    UserGetter
	loc      *time.Location
	now      func() time.Time
}

func NewLedgerService(ledger LedgerStore, wallets WalletStore, revenue RevenueStore, settings SettingsProvider, users UserGetter, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{
		ledger:   ledger,
		wallets:  wallets,
		revenue:  revenue,
		settings: settings,
		users:    users,
		loc:      loc,
		now:      time.Now,
	}
}

// PostBooking applies (or reverses) the revenue split for a confirmed
// booking. The commission percent is read from settings at post time, not
// from any value cached at booking creation. Safe to call at most once per
// (booking, direction): a repeat returns ErrAlreadyPosted with no effect.
func (s *LedgerService) PostBooking(ctx context.Context, b *models.Booking, direction string) error {
	if b.GrossAmountCents <= 0 {
		return fmt.Errorf("booking %s has no gross amount", b.Ticket)
	}
	sign := int64(1)
	if direction == domain.DirectionReverse {
		sign = -1
	}

	bps, err := ParsePercent(s.settings.CommissionPercent())
	if err != nil {
		return fmt.Errorf("commission percent: %w", err)
	}
	periodDate := repository.DayIn(s.now(), s.loc)

	if b.OwnerKind == domain.OwnerPlatform {
		entries := []models.LedgerEntry{{
			SourceRef:     b.Ticket,
			Category:      domain.CategoryBookingRevenue,
			Direction:     direction,
			PayerID:       b.RequesterID,
			PayerKind:     domain.PartyUser,
			RecipientID:   b.OwnerID,
			RecipientKind: domain.PartyPlatform,
			AmountCents:   sign * b.GrossAmountCents,
			PeriodDate:    periodDate,
		}}
		if err := s.appendTranslated(ctx, entries); err != nil {
			return err
		}
		return s.revenue.Add(ctx, periodDate, repository.PeriodDeltas{BookingCents: sign * b.GrossAmountCents})
	}

	if _, err := s.users.GetByID(b.OwnerID); err != nil {
		return ErrRecipientNotFound
	}
	platformCut, ownerCut := SplitRevenue(b.GrossAmountCents, bps)
	entries := []models.LedgerEntry{
		{
			SourceRef:     b.Ticket,
			Category:      domain.CategoryBookingRevenue,
			Direction:     direction,
			PayerID:       b.RequesterID,
			PayerKind:     domain.PartyUser,
			RecipientID:   b.OwnerID,
			RecipientKind: domain.PartyHost,
			AmountCents:   sign * ownerCut,
			PeriodDate:    periodDate,
		},
		{
			SourceRef:     b.Ticket,
			Category:      domain.CategoryCommissionRevenue,
			Direction:     direction,
			PayerID:       b.OwnerID,
			PayerKind:     domain.PartyHost,
			RecipientID:   0,
			RecipientKind: domain.PartyPlatform,
			AmountCents:   sign * platformCut,
			PeriodDate:    periodDate,
		},
	}
	if err := s.appendTranslated(ctx, entries); err != nil {
		return err
	}
	if err := s.wallets.AddRevenue(ctx, b.OwnerID, sign*ownerCut, sign*ownerCut); err != nil {
		return err
	}
	// The platform cut lands in both the booking and the percentage buckets
	// of the rollup.
	return s.revenue.Add(ctx, periodDate, repository.PeriodDeltas{
		BookingCents: sign * platformCut,
		PercentCents: sign * platformCut,
	})
}

// PostSubscription records a host subscription purchase as platform revenue.
func (s *LedgerService) PostSubscription(ctx context.Context, payerID uint, purchaseRef string, amountCents int64) error {
	return s.postPlatformRevenue(ctx, payerID, purchaseRef, amountCents,
		domain.CategorySubscriptionRevenue, repository.PeriodDeltas{SubscriptionCents: amountCents})
}

// PostFeature records a featured-listing purchase as platform revenue.
func (s *LedgerService) PostFeature(ctx context.Context, payerID uint, purchaseRef string, amountCents int64) error {
	return s.postPlatformRevenue(ctx, payerID, purchaseRef, amountCents,
		domain.CategoryFeatureRevenue, repository.PeriodDeltas{FeatureCents: amountCents})
}

func (s *LedgerService) postPlatformRevenue(ctx context.Context, payerID uint, ref string, amountCents int64, category string, deltas repository.PeriodDeltas) error {
	if amountCents <= 0 {
		return fmt.Errorf("non-positive amount for %s", ref)
	}
	periodDate := repository.DayIn(s.now(), s.loc)
	entries := []models.LedgerEntry{{
		SourceRef:     ref,
		Category:      category,
		Direction:     domain.DirectionApply,
		PayerID:       payerID,
		PayerKind:     domain.PartyHost,
		RecipientID:   0,
		RecipientKind: domain.PartyPlatform,
		AmountCents:   amountCents,
		PeriodDate:    periodDate,
	}}
	if err := s.appendTranslated(ctx, entries); err != nil {
		return err
	}
	return s.revenue.Add(ctx, periodDate, deltas)
}

// RecordDiscrepancy files a reconciliation row for a posting that failed
// after its state transition committed. Logged, never fatal.
func (s *LedgerService) RecordDiscrepancy(sourceRef, direction string, cause error) {
	log.Printf("[ledger] posting failed for %s %s: %v", sourceRef, direction, cause)
	err := s.ledger.CreateDiscrepancy(&models.Discrepancy{
		SourceRef: sourceRef,
		Direction: direction,
		Detail:    cause.Error(),
	})
	if err != nil {
		log.Printf("[ledger] recording discrepancy for %s: %v", sourceRef, err)
	}
}

func (s *LedgerService) appendTranslated(ctx context.Context, entries []models.LedgerEntry) error {
	err := s.ledger.Append(ctx, entries)
	if errors.Is(err, repository.ErrDuplicateEntry) {
		return ErrAlreadyPosted
	}
	return err
}
