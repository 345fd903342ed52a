package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ReclaimStuckGenerationsCommand struct {
	Timeout time.Duration
}

// ReclaimStuckGenerationsUseCase fails processing records that outlived the
// timeout and refunds their reservations. The synthesis call has no
// cancellation hook, so the reaper is the only way these records terminate.
type ReclaimStuckGenerationsUseCase struct {
	genRepo    generation.Repository
	ledgerRepo ledger.Repository
	txManager  db.TxManager
	logger     logger.Interface
}

func NewReclaimStuckGenerationsUseCase(
	genRepo generation.Repository,
	ledgerRepo ledger.Repository,
	txManager db.TxManager,
	logger logger.Interface,
) *ReclaimStuckGenerationsUseCase {
	return &ReclaimStuckGenerationsUseCase{
		genRepo:    genRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *ReclaimStuckGenerationsUseCase) Execute(ctx context.Context, cmd ReclaimStuckGenerationsCommand) (int, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	now := time.Now().UTC()
	cutoff := now.Add(-timeout)

	stuck, err := uc.genRepo.FindStuckProcessing(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to find stuck generations", "error", err)
		return 0, fmt.Errorf("failed to find stuck generations: %w", err)
	}

	reclaimed := 0
	for _, gen := range stuck {
		// re-check under the current state; a worker may have finished it
		// between the sweep query and now
		if !gen.IsStuck(now, timeout) {
			continue
		}

		err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := gen.Fail("processing timeout exceeded"); err != nil {
				return err
			}
			if err := uc.genRepo.Update(txCtx, gen); err != nil {
				return err
			}
			return uc.ledgerRepo.RefundCredits(txCtx, gen.UserID(), gen.CreditCost())
		})
		if err != nil {
			// a worker finishing between the sweep query and this write bumps
			// the row version; the delivered image keeps its reservation
			if errors.IsConflictError(err) {
				uc.logger.Debugw("generation changed concurrently, skipping", "generation_id", gen.ID())
				continue
			}
			uc.logger.Errorw("failed to reclaim generation", "error", err, "generation_id", gen.ID())
			continue
		}

		reclaimed++
		uc.logger.Warnw("reclaimed stuck generation",
			"generation_id", gen.ID(),
			"user_id", gen.UserID(),
			"started_at", gen.StartedAt(),
		)
	}

	if reclaimed > 0 {
		uc.logger.Infow("stuck generation sweep finished", "reclaimed", reclaimed)
	}
	return reclaimed, nil
}
