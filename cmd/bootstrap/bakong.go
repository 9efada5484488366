package bootstrap

import (
	"log/slog"
	"net/http"

	"diamond-topup/internal/infra/bakong"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/usecase/commands"

	"go.uber.org/fx"
)

var BakongModule = fx.Module("bakong",
	fx.Provide(
		fx.Annotate(
			NewBakongClient,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewBakongClient(cfg config.Config, logger *slog.Logger) *bakong.Client {
	return bakong.NewClient(cfg.Bakong, &http.Client{Timeout: cfg.Bakong.Timeout}, logger)
}
