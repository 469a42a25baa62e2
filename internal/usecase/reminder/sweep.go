package reminder

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/metrics"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/notify"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

const (
	// Candidates are fetched up to 2h out; only those inside the
	// imminent hour are notified. The rest get picked up by a later
	// sweep once they cross the boundary.
	fetchWindow = 2 * time.Hour
	sendWindow  = 1 * time.Hour

	lockKey = "booking:reminder_sweep"
	lockTTL = time.Minute
)

type Result struct {
	SentCount int  `json:"count"`
	Skipped   bool `json:"skipped,omitempty"`
}

// Sweep scans the ledger for confirmed, not-yet-reminded bookings and
// sends pre-appointment notifications. Safe to trigger repeatedly:
// reminder_sent guards per-booking re-entry and a Redis lease makes
// overlapping sweep invocations no-ops.
type Sweep struct {
	repo    domain.Repository
	mailer  notify.Mailer
	locker  *redis.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewSweep(
	repo domain.Repository,
	mailer notify.Mailer,
	locker *redis.Client,
	log zerolog.Logger,
	m *metrics.Metrics,
) *Sweep {
	return &Sweep{
		repo:    repo,
		mailer:  mailer,
		locker:  locker,
		log:     log,
		metrics: m,
	}
}

func (s *Sweep) Execute(ctx context.Context, now time.Time) (Result, error) {
	if s.locker != nil {
		ok, err := s.locker.SetNX(ctx, lockKey, now.Unix(), lockTTL).Result()
		if err != nil {
			// A broken lock backend degrades to the per-booking guard.
			s.log.Warn().Err(err).Msg("sweep lease unavailable, continuing unguarded")
		} else if !ok {
			return Result{Skipped: true}, nil
		} else {
			defer s.locker.Del(context.WithoutCancel(ctx), lockKey)
		}
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
		}
	}()

	// Calendar days that can contain an appointment within the fetch
	// window; the precise instant check happens per booking below.
	dayFrom := now.Truncate(24 * time.Hour).Add(-24 * time.Hour)
	dayTo := now.Add(fetchWindow)

	candidates, err := s.repo.ListReminderCandidates(ctx, dayFrom, dayTo)
	if err != nil {
		return Result{}, err
	}

	res := Result{}
	for _, b := range candidates {
		if !s.due(b, now) {
			continue
		}

		if err := s.remind(ctx, b); err != nil {
			// One failure must not abort the rest of the sweep.
			s.log.Error().Err(err).Uint("booking_id", b.ID).Msg("reminder failed")
			if s.metrics != nil {
				s.metrics.RemindersSent.WithLabelValues("failed").Inc()
			}
			continue
		}

		res.SentCount++
		if s.metrics != nil {
			s.metrics.RemindersSent.WithLabelValues("sent").Inc()
		}
	}

	return res, nil
}

// due reconstructs the absolute appointment instant from date +
// startTime and checks it against [now, now+1h).
func (s *Sweep) due(b models.Booking, now time.Time) bool {
	startMin, err := domain.ParseHHMM(b.StartTime)
	if err != nil {
		return false
	}

	loc := timezone.Location(b.Branch.Timezone)
	day := b.Date.In(loc)
	instant := time.Date(
		day.Year(), day.Month(), day.Day(),
		startMin/60, startMin%60, 0, 0,
		loc,
	)

	if instant.Before(now) {
		return false
	}

	return instant.Before(now.Add(sendWindow))
}

func (s *Sweep) remind(ctx context.Context, b models.Booking) error {
	// Win the flag flip first; the loser of a concurrent sweep must
	// not send a second email.
	won, err := s.repo.MarkReminderSent(ctx, b.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	err = s.mailer.SendReminder(ctx, notify.BookingMessage{
		To:          b.User.Email,
		Name:        b.User.Name,
		BarberName:  b.Barber.User.Name,
		ServiceName: b.Service.Name,
		Date:        b.Date.Format("2006-01-02"),
		StartTime:   b.StartTime,
	})
	if err != nil {
		// Give the booking back to a later sweep instead of silently
		// swallowing the reminder.
		if clearErr := s.repo.ClearReminderSent(ctx, b.ID); clearErr != nil {
			s.log.Error().Err(clearErr).Uint("booking_id", b.ID).Msg("reminder flag reset failed")
		}
		return err
	}

	return nil
}
