// Package schedule runs report generation on a cron schedule.
package schedule

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one scheduled generation. now is the tick time in the scheduler's
// location.
type Job func(ctx context.Context, now time.Time) error

type Scheduler struct {
	sched    cron.Schedule
	location *time.Location
	log      zerolog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func New(sched cron.Schedule, loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		sched:    sched,
		location: loc,
		log:      log.With().Str("component", "schedule").Logger(),
		now:      time.Now,
		after:    time.After,
	}
}

// Next returns the first activation strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.sched.Next(t.In(s.location))
}

// Run calls job at every activation until ctx is cancelled. Runs never
// overlap; a failing run is logged and the loop continues.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	for {
		if err := ctx.Err(); err != nil {
			s.log.Info().Msg("scheduler stopped")
			return err
		}
		now := s.now().In(s.location)
		next := s.Next(now)
		wait := next.Sub(now)
		s.log.Info().Time("next", next).Dur("in", wait.Round(time.Minute)).Msg("next report run")

		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-s.after(wait):
		}

		s.log.Info().Time("at", next).Msg("scheduled run starting")
		if err := job(ctx, next); err != nil {
			s.log.Error().Err(err).Msg("scheduled run failed")
			continue
		}
		s.log.Info().Msg("scheduled run complete")
	}
}
