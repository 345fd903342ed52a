package usecases

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	usageUC "github.com/pixamint/pixamint/internal/application/usage/usecases"
	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/id"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type CreateGenerationCommand struct {
	UserID uint
	Prompt string
	Model  string
	Size   string
}

type GenerationResult struct {
	SID         string
	Status      string
	Prompt      string
	Model       string
	Size        string
	CreditCost  int
	AssetURL    *string
	ErrorDetail *string
	CreatedAt   string
}

// CreateGenerationUseCase admits a generation request, reserves a credit,
// and hands the pending record to the async workflow. The caller gets the
// pending record back immediately and polls for the terminal state.
type CreateGenerationUseCase struct {
	genRepo    generation.Repository
	ledgerRepo ledger.Repository
	usageGate  *usageUC.CheckUsageUseCase
	workflow   *services.Workflow
	sanitizer  *bluemonday.Policy
	creditCost int
	logger     logger.Interface
}

func NewCreateGenerationUseCase(
	genRepo generation.Repository,
	ledgerRepo ledger.Repository,
	usageGate *usageUC.CheckUsageUseCase,
	workflow *services.Workflow,
	creditCost int,
	logger logger.Interface,
) *CreateGenerationUseCase {
	if creditCost <= 0 {
		creditCost = 1
	}
	return &CreateGenerationUseCase{
		genRepo:    genRepo,
		ledgerRepo: ledgerRepo,
		usageGate:  usageGate,
		workflow:   workflow,
		sanitizer:  bluemonday.StrictPolicy(),
		creditCost: creditCost,
		logger:     logger,
	}
}

func (uc *CreateGenerationUseCase) Execute(ctx context.Context, cmd CreateGenerationCommand) (*GenerationResult, error) {
	prompt := uc.sanitizer.Sanitize(cmd.Prompt)

	auth, err := uc.usageGate.Execute(ctx, usageUC.CheckUsageCommand{UserID: cmd.UserID})
	if err != nil {
		return nil, err
	}
	if !auth.Allowed {
		if auth.CreditsRemaining <= 0 {
			return nil, errors.NewInsufficientCreditsError("no credits remaining")
		}
		return nil, errors.NewLimitReachedError(auth.Reason)
	}

	// the atomic reservation is the real admission decision; the gate above
	// only produced a friendlier early rejection
	reserved, err := uc.ledgerRepo.ReserveCredits(ctx, cmd.UserID, uc.creditCost)
	if err != nil {
		uc.logger.Errorw("failed to reserve credits", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to reserve credits: %w", err)
	}
	if !reserved {
		return nil, errors.NewInsufficientCreditsError("no credits remaining")
	}

	sid, err := id.NewGenerationSID()
	if err != nil {
		uc.refund(ctx, cmd.UserID)
		return nil, fmt.Errorf("failed to generate sid: %w", err)
	}

	gen, err := generation.NewGeneration(sid, cmd.UserID, prompt, cmd.Model, cmd.Size, uc.creditCost)
	if err != nil {
		uc.refund(ctx, cmd.UserID)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.genRepo.Create(ctx, gen); err != nil {
		uc.refund(ctx, cmd.UserID)
		uc.logger.Errorw("failed to create generation", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create generation: %w", err)
	}

	if err := uc.workflow.Enqueue(gen.ID()); err != nil {
		if failErr := gen.Fail("service busy, try again later"); failErr == nil {
			if updErr := uc.genRepo.Update(ctx, gen); updErr != nil {
				uc.logger.Errorw("failed to persist queue rejection", "error", updErr, "generation_id", gen.ID())
			}
		}
		uc.refund(ctx, cmd.UserID)
		uc.logger.Warnw("generation queue full", "user_id", cmd.UserID, "generation_id", gen.ID())
		return nil, errors.NewInternalError("generation service is busy, try again later")
	}

	uc.logger.Infow("generation queued",
		"generation_id", gen.ID(),
		"user_id", cmd.UserID,
		"model", gen.Model(),
	)

	return toGenerationResult(gen), nil
}

func (uc *CreateGenerationUseCase) refund(ctx context.Context, userID uint) {
	if err := uc.ledgerRepo.RefundCredits(ctx, userID, uc.creditCost); err != nil {
		uc.logger.Errorw("failed to refund reserved credits", "error", err, "user_id", userID)
	}
}

func toGenerationResult(gen *generation.Generation) *GenerationResult {
	return &GenerationResult{
		SID:         gen.SID(),
		Status:      gen.Status().String(),
		Prompt:      gen.Prompt(),
		Model:       gen.Model(),
		Size:        gen.Size(),
		CreditCost:  gen.CreditCost(),
		AssetURL:    gen.AssetURL(),
		ErrorDetail: gen.ErrorDetail(),
		CreatedAt:   gen.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
	}
}
