// Package cache holds the Redis-backed read caches. The plan catalog is
// read on every pricing page hit but changes only on admin action, so it
// is cached whole with a jittered TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	subUC "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

const (
	activePlansKey = "plans:active"
	basePlanTTL    = 10 * time.Minute
	planTTLJitter  = 5 * time.Minute // TTL range: 10-15 min (anti-stampede)
)

type RedisPlanCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisPlanCache(client *redis.Client, logger logger.Interface) *RedisPlanCache {
	return &RedisPlanCache{client: client, logger: logger}
}

var _ subUC.PlanCache = (*RedisPlanCache)(nil)

func (c *RedisPlanCache) GetActivePlans(ctx context.Context) ([]*subUC.PlanResult, error) {
	raw, err := c.client.Get(ctx, activePlansKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Warnw("plan cache read failed", "error", err)
		return nil, fmt.Errorf("failed to read plan cache: %w", err)
	}

	var plans []*subUC.PlanResult
	if err := json.Unmarshal(raw, &plans); err != nil {
		// Corrupt entry; drop it and fall through to the repository.
		c.client.Del(ctx, activePlansKey)
		return nil, nil
	}

	return plans, nil
}

func (c *RedisPlanCache) SetActivePlans(ctx context.Context, plans []*subUC.PlanResult) error {
	raw, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("failed to marshal plans: %w", err)
	}

	ttl := basePlanTTL + rand.N(planTTLJitter)
	if err := c.client.Set(ctx, activePlansKey, raw, ttl).Err(); err != nil {
		c.logger.Warnw("plan cache write failed", "error", err)
		return fmt.Errorf("failed to write plan cache: %w", err)
	}

	return nil
}

func (c *RedisPlanCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, activePlansKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan cache: %w", err)
	}
	return nil
}
