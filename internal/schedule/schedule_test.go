package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, expr string) cron.Schedule {
	t.Helper()
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		t.Fatalf("parse %q: %v", expr, err)
	}
	return sched
}

func TestNextMonthly(t *testing.T) {
	s := New(mustParse(t, "0 9 28 * *"), time.UTC, zerolog.Nop())

	got := s.Next(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 28, 9, 0, 0, 0, time.UTC), got)

	got = s.Next(time.Date(2026, 10, 28, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 11, 28, 9, 0, 0, 0, time.UTC), got)
}

func TestNextUsesLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	s := New(mustParse(t, "0 9 * * *"), loc, zerolog.Nop())

	got := s.Next(time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC))
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 19, got.Day())
	assert.Equal(t, loc, got.Location())
}

func TestRunCallsJobUntilCancelled(t *testing.T) {
	s := New(mustParse(t, "0 9 28 * *"), time.UTC, zerolog.Nop())
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	s.after = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- clock
		return ch
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks []time.Time
	err := s.Run(ctx, func(_ context.Context, now time.Time) error {
		ticks = append(ticks, now)
		clock = now
		if len(ticks) == 2 {
			return errors.New("redmine down")
		}
		if len(ticks) == 3 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, ticks, 3)
	assert.Equal(t, time.Date(2026, 1, 28, 9, 0, 0, 0, time.UTC), ticks[0])
	assert.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), ticks[1])
	assert.Equal(t, time.Date(2026, 3, 28, 9, 0, 0, 0, time.UTC), ticks[2])
}

func TestRunStopsWhenAlreadyCancelled(t *testing.T) {
	s := New(mustParse(t, "* * * * *"), time.UTC, zerolog.Nop())
	s.after = func(time.Duration) <-chan time.Time { return make(chan time.Time) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(context.Context, time.Time) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
