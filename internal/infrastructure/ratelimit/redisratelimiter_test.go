package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisLimiter_MinuteWindow(t *testing.T) {
	limiter := NewRedisLimiter(setupTestRedis(t))
	ctx := context.Background()

	cfg := Config{PerMinute: 5}
	key := "user:7"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, key, cfg)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestRedisLimiter_TightestWindowWins(t *testing.T) {
	limiter := NewRedisLimiter(setupTestRedis(t))
	ctx := context.Background()

	cfg := Config{PerMinute: 2, PerHour: 100}
	key := "user:8"

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, key, cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, key, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "minute window must deny before the hour window fills")
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewRedisLimiter(setupTestRedis(t))
	ctx := context.Background()

	cfg := Config{PerMinute: 1}

	allowed, err := limiter.Allow(ctx, "user:9", cfg)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "user:9", cfg)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "user:10", cfg)
	require.NoError(t, err)
	assert.True(t, allowed, "another key must not be throttled")
}

func TestRedisLimiter_Reset(t *testing.T) {
	limiter := NewRedisLimiter(setupTestRedis(t))
	ctx := context.Background()

	cfg := Config{PerMinute: 1}
	key := "user:11"

	allowed, err := limiter.Allow(ctx, key, cfg)
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, key))

	allowed, err = limiter.Allow(ctx, key, cfg)
	require.NoError(t, err)
	assert.True(t, allowed, "reset must clear the window")
}

func TestRedisLimiter_Remaining(t *testing.T) {
	limiter := NewRedisLimiter(setupTestRedis(t))
	ctx := context.Background()

	cfg := Config{PerMinute: 10}
	key := "user:12"

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, key, cfg)
		require.NoError(t, err)
	}

	used, err := limiter.Remaining(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 3, used)
}
