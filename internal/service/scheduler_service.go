package service

import (
	"context"
	"log"
	"time"

	"stayhub/internal/models"
)

const sweepBatchSize = 500

// SweepSource lists the bookings due for each time-driven transition.
type SweepSource interface {
	ListConfirmedDueForActivation(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
	ListActiveDueForCompletion(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
	LockCancellationWindow(ctx context.Context, lockBefore time.Time) (int64, error)
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
}

// SchedulerService advances bookings across the transitions that depend only
// on wall-clock time. Every step is predicated on current state, so a rerun
// after a partial failure repeats no work, and a failing step never blocks
// the ones after it.
type SchedulerService struct {
	source   SweepSource
	bookings *BookingService
	settings SettingsProvider
	loc      *time.Location
	now      func() time.Time
}

func NewSchedulerService(source SweepSource, bookings *BookingService, settings SettingsProvider, loc *time.Location) *SchedulerService {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulerService{source: source, bookings: bookings, settings: settings, loc: loc, now: time.Now}
}

// Start runs the sweep on the given interval until ctx is done. The first
// sweep fires immediately so a restart catches up without waiting a full
// period.
func (s *SchedulerService) Start(ctx context.Context, interval time.Duration) {
	log.Printf("[scheduler] sweep every %s (tz=%s)", interval, s.loc)
	s.Run(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[scheduler] stopped")
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

// Run executes one sweep. Step failures are logged and swallowed; the timer
// never halts.
func (s *SchedulerService) Run(ctx context.Context) {
	now := s.now().In(s.loc)
	if err := s.activateDue(ctx, now); err != nil {
		log.Printf("[scheduler] activate: %v", err)
	}
	if err := s.completeDue(ctx, now); err != nil {
		log.Printf("[scheduler] complete: %v", err)
	}
	if err := s.lockDue(ctx, now); err != nil {
		log.Printf("[scheduler] lock: %v", err)
	}
	if err := s.purgeStale(ctx, now); err != nil {
		log.Printf("[scheduler] purge: %v", err)
	}
}

func (s *SchedulerService) activateDue(ctx context.Context, now time.Time) error {
	due, err := s.source.ListConfirmedDueForActivation(ctx, now, sweepBatchSize)
	if err != nil {
		return err
	}
	for i := range due {
		if err := s.bookings.Activate(ctx, &due[i]); err != nil {
			log.Printf("[scheduler] activate booking %d: %v", due[i].ID, err)
		}
	}
	if len(due) > 0 {
		log.Printf("[scheduler] activated %d bookings", len(due))
	}
	return nil
}

func (s *SchedulerService) completeDue(ctx context.Context, now time.Time) error {
	due, err := s.source.ListActiveDueForCompletion(ctx, now, sweepBatchSize)
	if err != nil {
		return err
	}
	for i := range due {
		if err := s.bookings.Complete(ctx, &due[i]); err != nil {
			log.Printf("[scheduler] complete booking %d: %v", due[i].ID, err)
		}
	}
	if len(due) > 0 {
		log.Printf("[scheduler] completed %d bookings", len(due))
	}
	return nil
}

func (s *SchedulerService) lockDue(ctx context.Context, now time.Time) error {
	lockHours := s.settings.CancellationLockHours()
	n, err := s.source.LockCancellationWindow(ctx, now.Add(time.Duration(lockHours)*time.Hour))
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[scheduler] locked cancellation on %d bookings", n)
	}
	return nil
}

func (s *SchedulerService) purgeStale(ctx context.Context, now time.Time) error {
	staleness := time.Duration(s.settings.PendingStalenessMinutes()) * time.Minute
	stale, err := s.source.ListStalePending(ctx, now.Add(-staleness), sweepBatchSize)
	if err != nil {
		return err
	}
	for i := range stale {
		if err := s.bookings.PurgePending(ctx, &stale[i]); err != nil {
			log.Printf("[scheduler] purge booking %d: %v", stale[i].ID, err)
		}
	}
	if len(stale) > 0 {
		log.Printf("[scheduler] purged %d stale pending bookings", len(stale))
	}
	return nil
}
