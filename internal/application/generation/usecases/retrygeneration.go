package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type RetryGenerationCommand struct {
	UserID uint
	SID    string
}

// RetryGenerationUseCase re-runs a failed attempt on explicit owner request.
// A fresh credit is reserved; retry is never automatic.
type RetryGenerationUseCase struct {
	genRepo    generation.Repository
	ledgerRepo ledger.Repository
	workflow   *services.Workflow
	logger     logger.Interface
}

func NewRetryGenerationUseCase(
	genRepo generation.Repository,
	ledgerRepo ledger.Repository,
	workflow *services.Workflow,
	logger logger.Interface,
) *RetryGenerationUseCase {
	return &RetryGenerationUseCase{
		genRepo:    genRepo,
		ledgerRepo: ledgerRepo,
		workflow:   workflow,
		logger:     logger,
	}
}

func (uc *RetryGenerationUseCase) Execute(ctx context.Context, cmd RetryGenerationCommand) (*GenerationResult, error) {
	gen, err := uc.genRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get generation", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	if gen == nil {
		return nil, errors.NewNotFoundError("generation not found")
	}
	if gen.UserID() != cmd.UserID {
		return nil, errors.NewForbiddenError("generation belongs to another user")
	}

	reserved, err := uc.ledgerRepo.ReserveCredits(ctx, cmd.UserID, gen.CreditCost())
	if err != nil {
		uc.logger.Errorw("failed to reserve credits", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to reserve credits: %w", err)
	}
	if !reserved {
		return nil, errors.NewInsufficientCreditsError("no credits remaining")
	}

	if err := gen.PrepareRetry(); err != nil {
		uc.refund(ctx, cmd.UserID, gen.CreditCost())
		return nil, errors.NewInvalidTransitionError(err.Error())
	}

	if err := uc.genRepo.Update(ctx, gen); err != nil {
		uc.refund(ctx, cmd.UserID, gen.CreditCost())
		uc.logger.Errorw("failed to update generation", "error", err, "generation_id", gen.ID())
		return nil, fmt.Errorf("failed to update generation: %w", err)
	}

	if err := uc.workflow.Enqueue(gen.ID()); err != nil {
		if failErr := gen.Fail("service busy, try again later"); failErr == nil {
			if updErr := uc.genRepo.Update(ctx, gen); updErr != nil {
				uc.logger.Errorw("failed to persist queue rejection", "error", updErr, "generation_id", gen.ID())
			}
		}
		uc.refund(ctx, cmd.UserID, gen.CreditCost())
		return nil, errors.NewInternalError("generation service is busy, try again later")
	}

	uc.logger.Infow("generation retry queued",
		"generation_id", gen.ID(),
		"user_id", cmd.UserID,
		"attempts", gen.Attempts(),
	)

	return toGenerationResult(gen), nil
}

func (uc *RetryGenerationUseCase) refund(ctx context.Context, userID uint, amount int) {
	if err := uc.ledgerRepo.RefundCredits(ctx, userID, amount); err != nil {
		uc.logger.Errorw("failed to refund reserved credits", "error", err, "user_id", userID)
	}
}
