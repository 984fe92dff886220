package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
)

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	limiter := New(config.RedisConfig{}, config.RateLimitConfig{Max: 1, WindowSeconds: 60}, zap.NewNop())

	assert.False(t, limiter.Enabled())
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(context.Background(), "ratelimit:/api/contact:1.2.3.4"))
	}
	assert.Error(t, limiter.Ping(context.Background()))
}

func TestNilLimiterAllows(t *testing.T) {
	var limiter *Limiter
	assert.True(t, limiter.Allow(context.Background(), "key"))
	assert.False(t, limiter.Enabled())
}
