package bootstrap

import (
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// reseller sessions are issued by the storefront; we only validate them
func NewJWTService(cfg config.Config) *jwt.Service {
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET must not be empty")
	}
	return jwt.NewService(cfg.JWT.Secret)
}
