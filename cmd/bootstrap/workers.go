package bootstrap

import (
	"context"
	"log/slog"

	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/schedule"
	"diamond-topup/internal/usecase/commands"

	"go.uber.org/fx"
)

var WorkersModule = fx.Module("workers",
	fx.Invoke(
		RegisterPollerShutdown,
		RegisterSweepWorker,
	),
)

func RegisterPollerShutdown(lc fx.Lifecycle, poller commands.SettlementPoller) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return poller.Shutdown(ctx)
		},
	})
}

// RegisterSweepWorker runs the reconciliation sweep on a fixed interval. A
// sweep in flight at shutdown is canceled through its context.
func RegisterSweepWorker(lc fx.Lifecycle, sweeper commands.Sweeper, cfg config.Config, logger *slog.Logger) {
	if !cfg.Sweep.Enabled {
		logger.Info("定期照合は無効です")
		return
	}

	var task *schedule.Task
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			task = schedule.Every(context.Background(), cfg.Sweep.Interval, false, func(ctx context.Context) bool {
				result, err := sweeper.Sweep(ctx)
				if err != nil {
					logger.Error("定期照合に失敗しました", slog.String("error", err.Error()))
					return false
				}
				if result.Checked > 0 {
					logger.Info("定期照合が完了しました",
						slog.Int("checked", result.Checked),
						slog.Int("fulfilled", result.Fulfilled),
						slog.Int("pending", result.Pending),
						slog.Int("errors", result.Errors))
				}
				return false
			})
			logger.Info("定期照合を開始しました", slog.Duration("interval", cfg.Sweep.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if task == nil {
				return nil
			}
			task.Cancel()
			select {
			case <-task.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
