package bootstrap

import (
	"context"
	"log/slog"

	"diamond-topup/internal/infra/cooldown"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewCooldownStore,
	),
)

// NewCooldownStore falls back to an in-process store when REDIS_ADDR is
// unset; cooldowns are then per instance.
func NewCooldownStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) commands.CooldownStore {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR が未設定のため、プロセス内のクールダウンストアを使用します")
		return cooldown.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errs.Wrap(err, "failed to ping redis")
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return cooldown.NewRedisStore(client, cfg.Redis.KeyPrefix)
}
