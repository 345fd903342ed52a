package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// SubscriptionScheduler runs the periodic subscription sweeps.
// - Expires lapsed subscriptions and sweeps abandoned checkouts
// - Emails users whose non-renewing subscription is about to run out
type SubscriptionScheduler struct {
	expireSubscriptionsUC *subscriptionUsecases.ExpireSubscriptionsUseCase
	warnExpiringUC        *subscriptionUsecases.WarnExpiringUseCase
	logger                logger.Interface
	stopChan              chan struct{}
	stopOnce              sync.Once
	wg                    sync.WaitGroup
	interval              time.Duration
	pendingPaymentMaxAge  time.Duration
	warnDaysAhead         []int
}

// NewSubscriptionScheduler creates a new SubscriptionScheduler
func NewSubscriptionScheduler(
	expireSubscriptionsUC *subscriptionUsecases.ExpireSubscriptionsUseCase,
	warnExpiringUC *subscriptionUsecases.WarnExpiringUseCase,
	schedulerCfg *config.SchedulerConfig,
	usageCfg *config.UsageConfig,
	logger logger.Interface,
) *SubscriptionScheduler {
	interval := schedulerCfg.ExpiryInterval
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionScheduler{
		expireSubscriptionsUC: expireSubscriptionsUC,
		warnExpiringUC:        warnExpiringUC,
		logger:                logger,
		stopChan:              make(chan struct{}),
		interval:              interval,
		pendingPaymentMaxAge:  usageCfg.PendingPaymentMaxAge,
		warnDaysAhead:         schedulerCfg.WarnDaysAhead,
	}
}

// Start starts the scheduler
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to clear any backlog from downtime
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *SubscriptionScheduler) runSweep(ctx context.Context) {
	s.processExpiredSubscriptions(ctx)
	s.warnExpiringSubscriptions(ctx)
}

func (s *SubscriptionScheduler) processExpiredSubscriptions(ctx context.Context) {
	startTime := time.Now()

	result, err := s.expireSubscriptionsUC.Execute(ctx, subscriptionUsecases.ExpireSubscriptionsCommand{
		PendingPaymentMaxAge: s.pendingPaymentMaxAge,
	})
	if err != nil {
		s.logger.Errorw("failed to process expired subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Expired > 0 || result.AbandonedSwept > 0 {
		s.logger.Infow("expired subscriptions processed",
			"expired", result.Expired,
			"abandoned_swept", result.AbandonedSwept,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no expired subscriptions to process",
			"duration", time.Since(startTime),
		)
	}
}

func (s *SubscriptionScheduler) warnExpiringSubscriptions(ctx context.Context) {
	startTime := time.Now()

	warned, err := s.warnExpiringUC.Execute(ctx, subscriptionUsecases.WarnExpiringCommand{
		DaysAhead: s.warnDaysAhead,
	})
	if err != nil {
		s.logger.Errorw("failed to warn expiring subscriptions",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if warned > 0 {
		s.logger.Infow("expiry warnings sent",
			"count", warned,
			"duration", time.Since(startTime),
		)
	}
}
