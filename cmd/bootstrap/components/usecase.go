package components

import (
	"log/slog"

	"diamond-topup/internal/domain/catalog"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/usecase"
	"diamond-topup/internal/usecase/commands"
	"diamond-topup/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		catalog.NewDefaultPriceCalculator,
		fx.As(new(catalog.PriceCalculator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewFulfiller,
		NewSettlementPoller,
		func(p commands.SettlementPoller) commands.PollRegistrar { return p },
		commands.NewQRIssuance,
		NewSweeper,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewSettlementPoller(
	store commands.TokenStore,
	gateway commands.PaymentGateway,
	fulfiller *commands.Fulfiller,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) commands.SettlementPoller {
	return commands.NewSettlementPoller(store, gateway, fulfiller, clk, logger, cfg.Payment)
}

func NewSweeper(
	store commands.TokenStore,
	gateway commands.PaymentGateway,
	fulfiller *commands.Fulfiller,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) commands.Sweeper {
	return commands.NewSweeper(store, gateway, fulfiller, clk, logger, cfg.Sweep)
}
