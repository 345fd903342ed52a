// Package services drives generation attempts to their terminal state after
// the initiating request has returned.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/goroutine"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// WorkflowConfig bounds the worker pool and the per-attempt deadline.
type WorkflowConfig struct {
	WorkerCount       int
	QueueSize         int
	ProcessingTimeout time.Duration
}

// Workflow runs generation attempts on a bounded worker pool. Each attempt
// holds no database lock while the external calls are in flight; the credit
// reservation taken at enqueue time is the only isolation needed.
type Workflow struct {
	genRepo    generation.Repository
	ledgerRepo ledger.Repository
	subRepo    subscription.Repository
	synthesizer Synthesizer
	assets     AssetStore
	txManager  db.TxManager
	cfg        WorkflowConfig
	logger     logger.Interface

	queue    chan uint
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewWorkflow(
	genRepo generation.Repository,
	ledgerRepo ledger.Repository,
	subRepo subscription.Repository,
	synthesizer Synthesizer,
	assets AssetStore,
	txManager db.TxManager,
	cfg WorkflowConfig,
	logger logger.Interface,
) *Workflow {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = 5 * time.Minute
	}

	return &Workflow{
		genRepo:     genRepo,
		ledgerRepo:  ledgerRepo,
		subRepo:     subRepo,
		synthesizer: synthesizer,
		assets:      assets,
		txManager:   txManager,
		cfg:         cfg,
		logger:      logger.Named("generation-workflow"),
		queue:       make(chan uint, cfg.QueueSize),
	}
}

// Start launches the worker pool.
func (w *Workflow) Start() {
	for i := 0; i < w.cfg.WorkerCount; i++ {
		w.wg.Add(1)
		name := fmt.Sprintf("generation-worker-%d", i)
		goroutine.SafeGo(w.logger, name, func() {
			defer w.wg.Done()
			for genID := range w.queue {
				w.process(genID)
			}
		})
	}
	w.logger.Infow("generation workflow started",
		"workers", w.cfg.WorkerCount,
		"queue_size", w.cfg.QueueSize,
	)
}

// Stop drains the queue and waits for in-flight attempts to finish.
func (w *Workflow) Stop() {
	w.stopOnce.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
	w.logger.Infow("generation workflow stopped")
}

// Enqueue hands a pending record to the pool. Returns ErrQueueFull when the
// pool is saturated so the caller can fail the record and refund.
func (w *Workflow) Enqueue(generationID uint) error {
	select {
	case w.queue <- generationID:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Workflow) process(generationID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.ProcessingTimeout)
	defer cancel()

	gen, err := w.genRepo.GetByID(ctx, generationID)
	if err != nil {
		w.logger.Errorw("failed to load generation", "error", err, "generation_id", generationID)
		return
	}
	if gen == nil {
		w.logger.Warnw("generation vanished before processing", "generation_id", generationID)
		return
	}
	if gen.Status().IsTerminal() {
		return
	}

	if err := gen.Start(); err != nil {
		w.logger.Errorw("failed to start generation", "error", err, "generation_id", generationID)
		return
	}
	if err := w.genRepo.Update(ctx, gen); err != nil {
		w.logger.Errorw("failed to persist processing state", "error", err, "generation_id", generationID)
		return
	}

	result, err := w.synthesizer.Generate(ctx, SynthesisRequest{
		Prompt: gen.Prompt(),
		Model:  gen.Model(),
		Size:   gen.Size(),
	})
	if err != nil {
		w.compensate(gen, fmt.Sprintf("synthesis failed: %v", err))
		return
	}

	assetKey := gen.SID() + ".png"
	assetURL, err := w.assets.StoreFromURL(ctx, result.ImageURL, assetKey)
	if err != nil {
		w.compensate(gen, fmt.Sprintf("asset upload failed: %v", err))
		return
	}

	if err := w.finalize(gen, assetURL); err != nil {
		w.logger.Errorw("failed to finalize generation", "error", err, "generation_id", generationID)
	}
}

// finalize commits the completed record together with the ledger counters.
func (w *Workflow) finalize(gen *generation.Generation, assetURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return w.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := gen.Complete(assetURL); err != nil {
			return fmt.Errorf("failed to complete generation: %w", err)
		}
		if err := w.genRepo.Update(txCtx, gen); err != nil {
			return fmt.Errorf("failed to update generation: %w", err)
		}
		if err := w.ledgerRepo.IncrementImagesGenerated(txCtx, gen.UserID()); err != nil {
			return fmt.Errorf("failed to increment images generated: %w", err)
		}

		sub, err := w.subRepo.GetLiveByUserID(txCtx, gen.UserID())
		if err != nil {
			return fmt.Errorf("failed to get subscription: %w", err)
		}
		if sub != nil && sub.IsActive(time.Now().UTC()) {
			sub.RecordImageUse()
			if err := w.subRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to update subscription usage: %w", err)
			}
		}

		w.logger.Infow("generation completed",
			"generation_id", gen.ID(),
			"user_id", gen.UserID(),
			"attempts", gen.Attempts(),
		)
		return nil
	})
}

// compensate fails the record and returns the reserved credit in one unit.
func (w *Workflow) compensate(gen *generation.Generation, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := w.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := gen.Fail(detail); err != nil {
			return fmt.Errorf("failed to mark generation failed: %w", err)
		}
		if err := w.genRepo.Update(txCtx, gen); err != nil {
			return fmt.Errorf("failed to update generation: %w", err)
		}
		if err := w.ledgerRepo.RefundCredits(txCtx, gen.UserID(), gen.CreditCost()); err != nil {
			return fmt.Errorf("failed to refund credits: %w", err)
		}
		return nil
	})
	if err != nil {
		w.logger.Errorw("failed to compensate generation",
			"error", err,
			"generation_id", gen.ID(),
			"detail", detail,
		)
		return
	}

	w.logger.Warnw("generation failed and refunded",
		"generation_id", gen.ID(),
		"user_id", gen.UserID(),
		"detail", detail,
	)
}
