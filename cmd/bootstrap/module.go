package bootstrap

import (
	"diamond-topup/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule is everything except the HTTP surface and background workers;
// topupctl reuses it for one-shot commands.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	RedisModule,
	BakongModule,
	MessagingModule,
	components.RepositoryModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	JWTModule,
	components.HandlerModule,
	WorkersModule,
)
