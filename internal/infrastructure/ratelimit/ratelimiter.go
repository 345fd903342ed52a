package ratelimit

import (
	"context"
	"time"
)

// Config bounds request volume over sliding lookback windows. A zero limit
// disables that window.
type Config struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// Limiter answers whether a keyed caller may proceed under the given
// config. Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string, cfg Config) (bool, error)
	Remaining(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
