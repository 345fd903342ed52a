package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// UsageResetScheduler zeroes per-period usage counters on active
// subscriptions whose billing period has rolled over.
type UsageResetScheduler struct {
	resetUsageUC *subscriptionUsecases.ResetUsageUseCase
	logger       logger.Interface
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	interval     time.Duration
}

// NewUsageResetScheduler creates a new UsageResetScheduler
func NewUsageResetScheduler(
	resetUsageUC *subscriptionUsecases.ResetUsageUseCase,
	schedulerCfg *config.SchedulerConfig,
	logger logger.Interface,
) *UsageResetScheduler {
	interval := schedulerCfg.UsageResetInterval
	if interval <= 0 {
		interval = time.Hour
	}
	return &UsageResetScheduler{
		resetUsageUC: resetUsageUC,
		logger:       logger,
		stopChan:     make(chan struct{}),
		interval:     interval,
	}
}

// Start starts the scheduler
func (s *UsageResetScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting usage reset scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *UsageResetScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping usage reset scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("usage reset scheduler stopped")
	})
}

func (s *UsageResetScheduler) runLoop(ctx context.Context) {
	s.resetUsageCounters(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("usage reset scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.resetUsageCounters(ctx)
		}
	}
}

func (s *UsageResetScheduler) resetUsageCounters(ctx context.Context) {
	startTime := time.Now()

	resetCount, err := s.resetUsageUC.Execute(ctx, subscriptionUsecases.ResetUsageCommand{})
	if err != nil {
		s.logger.Errorw("failed to reset usage counters",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if resetCount > 0 {
		s.logger.Infow("usage counters reset",
			"count", resetCount,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no usage counters to reset",
			"duration", time.Since(startTime),
		)
	}
}
