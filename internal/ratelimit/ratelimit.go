package ratelimit

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
)

// Limiter applies a fixed-window request limit per client, backed by Redis.
// With no Redis address configured the limiter allows everything, so the
// service keeps accepting forms in environments without Redis. Redis
// outages also fail open: a form post is never blocked on limiter state.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// New connects to Redis and returns a Limiter. A nil client (empty addr)
// disables limiting.
func New(redisCfg config.RedisConfig, limitCfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	var client *redis.Client
	if redisCfg.Addr != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warn("unable to reach redis, rate limiting degraded", zap.Error(err))
		} else {
			logger.Info("connected to redis")
		}
	}
	return &Limiter{client: client, cfg: limitCfg, logger: logger}
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
			l.logger.Warn("rate limit expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.cfg.Max)
}

// Ping verifies Redis connectivity for the readiness probe.
func (l *Limiter) Ping(ctx context.Context) error {
	if l == nil || l.client == nil {
		return errors.New("redis not configured")
	}
	return l.client.Ping(ctx).Err()
}

// Enabled reports whether a Redis backend is attached.
func (l *Limiter) Enabled() bool {
	return l != nil && l.client != nil
}

// Close closes the client.
func (l *Limiter) Close() {
	if l != nil && l.client != nil {
		_ = l.client.Close()
	}
}
