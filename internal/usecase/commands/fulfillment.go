package commands

import (
	"context"
	"log/slog"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/pkg/errs"
)

// Fulfiller is the single path from "payment settled" to "order delivered".
// Poller, sweeper and the verify endpoint all go through it, so the
// compare-and-set in the store decides who dispatches.
type Fulfiller struct {
	store    TokenStore
	notifier Notifier
	logger   *slog.Logger
}

func NewFulfiller(store TokenStore, notifier Notifier, logger *slog.Logger) *Fulfiller {
	return &Fulfiller{store: store, notifier: notifier, logger: logger}
}

// Fulfill dispatches the snapshot messages only on FulfillNewly. The report
// is nil for any other outcome.
func (f *Fulfiller) Fulfill(ctx context.Context, hash ordertoken.CorrelationHash, source string) (ordertoken.FulfillOutcome, notification.Report, error) {
	result, err := f.store.TryFulfill(ctx, hash)
	if err != nil {
		if result.Outcome != ordertoken.FulfillNewly {
			return result.Outcome, nil, errs.Wrap(err, "failed to fulfill order token")
		}
		// 遷移は確定済みだがスナップショットが読めない。通知は送れない
		f.logger.Error("注文は確定しましたがスナップショットを復元できません",
			slog.String("correlation_hash", hash.String()),
			slog.String("source", source),
			slog.String("error", err.Error()))
		return result.Outcome, nil, nil
	}

	if result.Outcome != ordertoken.FulfillNewly {
		f.logger.Info("既に終端状態のため通知は送信しません",
			slog.String("correlation_hash", hash.String()),
			slog.String("source", source),
			slog.String("outcome", result.Outcome.String()))
		return result.Outcome, nil, nil
	}

	// 通知の失敗は確定済みの状態に影響させない
	report := f.notifier.SendAll(context.WithoutCancel(ctx), result.Snapshot.Messages)

	f.logger.Info("注文を確定しました",
		slog.String("correlation_hash", hash.String()),
		slog.String("order_ref", result.Snapshot.OrderRef),
		slog.String("source", source),
		slog.Any("notifications", report))

	return result.Outcome, report, nil
}
