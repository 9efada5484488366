package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/infra/messenger"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/usecase/commands"
	"diamond-topup/internal/usecase/dispatch"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewMessengerRouter,
		NewDispatcher,
		func(d *dispatch.Dispatcher) commands.Notifier { return d },
	),
)

func NewMessengerRouter(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *messenger.Router {
	router := messenger.NewRouter()

	if cfg.Notify.TelegramBotToken != "" {
		httpClient := &http.Client{Timeout: cfg.Notify.Timeout}
		router.Register(notification.SchemeTelegram,
			messenger.NewTelegramSender(cfg.Notify.TelegramAPIURL, cfg.Notify.TelegramBotToken, httpClient))
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN が未設定のため、telegram チャネルへの通知は送信されません")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		sender := messenger.NewKafkaSender(messenger.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout))
		router.Register(notification.SchemeKafka, sender)
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return sender.Close()
			},
		})
	}

	return router
}

// NewDispatcher stops after the HTTP server so queued confirmations are
// drained before exit.
func NewDispatcher(lc fx.Lifecycle, router *messenger.Router, clk clock.Clock, logger *slog.Logger, cfg config.Config) *dispatch.Dispatcher {
	d := dispatch.NewDispatcher(router, clk, logger, cfg.Notify)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
	return d
}
