package scheduler

import (
	"context"
	"sync"
	"time"

	generationUsecases "github.com/pixamint/pixamint/internal/application/generation/usecases"
	"github.com/pixamint/pixamint/internal/shared/config"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// GenerationReaperScheduler fails generation records stuck in processing,
// refunds their credit reservations, and purges failed records past their
// retention window. Without it an interrupted worker would strand the
// reservation forever.
type GenerationReaperScheduler struct {
	reclaimStuckUC    *generationUsecases.ReclaimStuckGenerationsUseCase
	purgeFailedUC     *generationUsecases.PurgeFailedGenerationsUseCase
	logger            logger.Interface
	stopChan          chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
	interval          time.Duration
	processingTimeout time.Duration
	failedRetention   time.Duration
}

// NewGenerationReaperScheduler creates a new GenerationReaperScheduler
func NewGenerationReaperScheduler(
	reclaimStuckUC *generationUsecases.ReclaimStuckGenerationsUseCase,
	purgeFailedUC *generationUsecases.PurgeFailedGenerationsUseCase,
	schedulerCfg *config.SchedulerConfig,
	usageCfg *config.UsageConfig,
	logger logger.Interface,
) *GenerationReaperScheduler {
	interval := schedulerCfg.ReaperInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &GenerationReaperScheduler{
		reclaimStuckUC:    reclaimStuckUC,
		purgeFailedUC:     purgeFailedUC,
		logger:            logger,
		stopChan:          make(chan struct{}),
		interval:          interval,
		processingTimeout: usageCfg.ProcessingTimeout,
		failedRetention:   schedulerCfg.FailedRetention,
	}
}

// Start starts the scheduler
func (s *GenerationReaperScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting generation reaper scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *GenerationReaperScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping generation reaper scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("generation reaper scheduler stopped")
	})
}

func (s *GenerationReaperScheduler) runLoop(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("generation reaper scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *GenerationReaperScheduler) sweep(ctx context.Context) {
	s.reclaimStuckGenerations(ctx)
	s.purgeAgedFailures(ctx)
}

func (s *GenerationReaperScheduler) reclaimStuckGenerations(ctx context.Context) {
	startTime := time.Now()

	reclaimed, err := s.reclaimStuckUC.Execute(ctx, generationUsecases.ReclaimStuckGenerationsCommand{
		Timeout: s.processingTimeout,
	})
	if err != nil {
		s.logger.Errorw("failed to reclaim stuck generations",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if reclaimed > 0 {
		s.logger.Infow("stuck generations reclaimed",
			"count", reclaimed,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no stuck generations to reclaim",
			"duration", time.Since(startTime),
		)
	}
}

func (s *GenerationReaperScheduler) purgeAgedFailures(ctx context.Context) {
	startTime := time.Now()

	purged, err := s.purgeFailedUC.Execute(ctx, generationUsecases.PurgeFailedGenerationsCommand{
		Retention: s.failedRetention,
	})
	if err != nil {
		s.logger.Errorw("failed to purge aged failed generations",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if purged > 0 {
		s.logger.Infow("aged failed generations purged",
			"count", purged,
			"duration", time.Since(startTime),
		)
	}
}
