package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/payslip/internal/config"
	"go.uber.org/fx"
)

const keyReportClient = "payslip:report:client:%s"

// ReportLimiter bounds how often one client may run report endpoints. A nil
// limiter allows everything.
type ReportLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewReportLimiter(lc fx.Lifecycle, cfg config.Config) (*ReportLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.Cache.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ReportRate <= 0 || limitCfg.ReportBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Cache.RedisPassword),
		DB:       cfg.Cache.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error { return client.Close() },
		})
	}

	return &ReportLimiter{
		bucket: NewTokenBucket(client),
		rate:   limitCfg.ReportRate,
		burst:  limitCfg.ReportBurst,
	}, nil
}

func (l *ReportLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// AllowClient takes a token for clientID.
func (l *ReportLimiter) AllowClient(ctx context.Context, clientID string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyReportClient, strings.TrimSpace(clientID)), l.rate, l.burst)
}
