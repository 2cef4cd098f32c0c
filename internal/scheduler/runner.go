package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the recurring trigger period for the deadline scan.
const DefaultInterval = time.Hour

// Ticker abstracts the recurring trigger so tests can drive ticks manually
// instead of waiting on wall-clock time.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type intervalTicker struct {
	ticker *time.Ticker
}

// NewIntervalTicker returns a wall-clock ticker firing every interval.
func NewIntervalTicker(interval time.Duration) Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &intervalTicker{ticker: time.NewTicker(interval)}
}

func (t *intervalTicker) C() <-chan time.Time { return t.ticker.C }

func (t *intervalTicker) Stop() { t.ticker.Stop() }

// Runner drives the scheduler off a ticker. Ticks run synchronously on the
// runner goroutine, so they can never overlap: if a scan overruns the
// interval, the next trigger is consumed only after the scan completes.
type Runner struct {
	scheduler *DeadlineScheduler
	ticker    Ticker
	logger    zerolog.Logger
}

// NewRunner constructs a runner for the given scheduler and trigger.
func NewRunner(scheduler *DeadlineScheduler, ticker Ticker, logger zerolog.Logger) *Runner {
	return &Runner{
		scheduler: scheduler,
		ticker:    ticker,
		logger:    logger.With().Str("component", "scheduler_runner").Logger(),
	}
}

// Run blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	defer r.ticker.Stop()

	r.logger.Info().Msg("deadline scheduler started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("deadline scheduler stopped")
			return
		case now := <-r.ticker.C():
			r.scheduler.Tick(ctx, now)
		}
	}
}
