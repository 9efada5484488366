package components

import (
	"diamond-topup/internal/infra/db"
	"diamond-topup/internal/infra/repository"
	"diamond-topup/internal/usecase/commands"
	"diamond-topup/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repository.NewOrderTokenRepository,
			fx.As(new(commands.TokenStore)),
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			repository.NewProductRepository,
			fx.As(new(commands.CatalogReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
