package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/deividalexander/investment-opportunity-engine/internal/scheduler"
)

// Run executes the full pipeline end to end: ETL then scoring. With Watch
// enabled it repeats on the configured interval until interrupted.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	job := func(ctx context.Context) error {
		records, stats, err := a.ETL(ctx, ETLOptions{})
		if err != nil {
			return err
		}
		return a.scoreRecords(ctx, records, stats, ScoreOptions{})
	}

	if !opts.Watch {
		return job(ctx)
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting watch mode")
	err := sched.Run(ctx, job)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch mode terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch mode stopped")
	return nil
}
