package bootstrap

import (
	"context"
	"log/slog"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"
	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/usecase/commands"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(startSweeper),
)

// startSweeper schedules the periodic expiry sweep. Lazy expiry keeps the
// live flows correct on its own; the sweep bounds how long an abandoned
// pre-reservation can pin capacity and a gift-card hold.
func startSweeper(lc fx.Lifecycle, sweeper commands.ExpirySweeper, cfg config.BookingConfig, logger *slog.Logger) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.SweepInterval),
		gocron.NewTask(func() {
			if _, sweepErr := sweeper.SweepOnce(context.Background()); sweepErr != nil {
				logger.Error("expiry sweep failed", "error", sweepErr.Error())
			}
		}),
	)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			scheduler.Start()
			logger.Info("expiry sweeper started", "interval", cfg.SweepInterval.String())
			return nil
		},
		OnStop: func(_ context.Context) error {
			return scheduler.Shutdown()
		},
	})
	return nil
}
