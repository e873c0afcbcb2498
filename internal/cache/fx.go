package cache

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/payslip/internal/clock"
	"github.com/smallbiznis/payslip/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(NewBytesCache),
)

// NewBytesCache selects the export cache backend from config.
func NewBytesCache(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) (BytesCache, error) {
	if !cfg.Cache.Enabled {
		return NewNoop(), nil
	}
	if cfg.Cache.Backend != config.CacheBackendRedis {
		return NewMemoryBytes(NewTTLCacheWithClock[string, []byte](clk)), nil
	}

	addr := strings.TrimSpace(cfg.Cache.RedisAddr)
	if addr == "" {
		return nil, errors.New("cache redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Cache.RedisPassword),
		DB:       cfg.Cache.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					log.Warn("redis cache unreachable", zap.String("addr", addr), zap.Error(err))
				}
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
	}
	log.Info("export cache backed by redis", zap.String("addr", addr))
	return NewRedisBytes(client), nil
}
