// Package daemon runs the full scrape→review→report cycle on a cron
// schedule.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Daemon wraps robfig/cron around one pipeline cycle function.
type Daemon struct {
	cron     *cron.Cron
	schedule string
	cycle    func(ctx context.Context) error
	logger   *slog.Logger
}

// New creates a daemon firing cycle on the given cron spec (standard specs
// and descriptors like "@every 6h" are accepted). Fires are serialized: a
// cycle that outlasts the schedule period makes the next fire skip, so a
// single review runner is ever active against the store.
func New(schedule string, cycle func(ctx context.Context) error, logger *slog.Logger) *Daemon {
	return &Daemon{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger}))),
		schedule: schedule,
		cycle:    cycle,
		logger:   logger,
	}
}

// Run registers the job, runs one cycle immediately, and blocks until ctx is
// cancelled. Cycle failures are logged; the daemon keeps its schedule.
func (d *Daemon) Run(ctx context.Context) error {
	_, err := d.cron.AddFunc(d.schedule, func() {
		d.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid daemon schedule %q: %w", d.schedule, err)
	}

	d.logger.Info("daemon started", "schedule", d.schedule)

	// First cycle right away so a fresh install produces results without
	// waiting for the first tick.
	d.runCycle(ctx)

	d.cron.Start()
	<-ctx.Done()

	stopCtx := d.cron.Stop()
	<-stopCtx.Done()

	d.logger.Info("daemon stopped")
	return nil
}

func (d *Daemon) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := d.cycle(ctx); err != nil {
		d.logger.Error("pipeline cycle failed", "error", err)
	}
}

// cronLogger adapts slog to the cron logging interface, so skipped fires
// show up in the daemon's own log stream.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
