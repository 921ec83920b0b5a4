// Package sweeper clears abandoned conversation states. A user who starts a
// multi-step flow and walks away would otherwise have their next free text,
// hours later, swallowed by the stale continuation.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m3rciful/profilebot/core/logger"
	"github.com/m3rciful/profilebot/internal/state"

	"log/slog"
)

// StaleClearer is the store operation the sweeper runs.
type StaleClearer interface {
	ClearStale(ctx context.Context, labels []string, cutoff time.Time) (int64, error)
}

// Options configure the sweeper schedule.
type Options struct {
	// TTL marks waiting states older than this as abandoned. Zero disables
	// the sweeper entirely.
	TTL time.Duration
	// Interval between runs; zero means one minute.
	Interval time.Duration
}

// Sweeper runs the periodic cleanup on a cron schedule.
type Sweeper struct {
	store StaleClearer
	opts  Options
	cron  *cron.Cron
}

// New builds the sweeper. Returns nil when the TTL disables it; callers
// treat a nil sweeper as "nothing to start".
func New(store StaleClearer, opts Options) *Sweeper {
	if opts.TTL <= 0 {
		return nil
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	return &Sweeper{
		store: store,
		opts:  opts,
		cron:  cron.New(cron.WithSeconds()),
	}
}

// Start schedules the cleanup job and starts the cron runner.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.opts.Interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("sweeper schedule: %w", err)
	}
	s.cron.Start()
	logger.SWEEP.Info("sweeper started",
		slog.String("event", "start"),
		slog.Duration("ttl", s.opts.TTL),
		slog.Duration("interval", s.opts.Interval),
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.SWEEP.Info("sweeper stopped", slog.String("event", "stop"))
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.opts.TTL)
	n, err := s.store.ClearStale(ctx, state.WaitingLabels, cutoff)
	if err != nil {
		logger.SWEEP.Error("sweep failed",
			slog.String("event", "sweep"),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return
	}
	if n > 0 {
		logger.SWEEP.Info("stale states cleared",
			slog.String("event", "sweep"),
			slog.Int64("cleared", n),
		)
	}
}
