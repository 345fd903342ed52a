package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type GetGenerationCommand struct {
	UserID uint
	SID    string
}

type GetGenerationUseCase struct {
	genRepo generation.Repository
	logger  logger.Interface
}

func NewGetGenerationUseCase(genRepo generation.Repository, logger logger.Interface) *GetGenerationUseCase {
	return &GetGenerationUseCase{genRepo: genRepo, logger: logger}
}

func (uc *GetGenerationUseCase) Execute(ctx context.Context, cmd GetGenerationCommand) (*GenerationResult, error) {
	gen, err := uc.genRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get generation", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	if gen == nil {
		return nil, errors.NewNotFoundError("generation not found")
	}

	// public records may be viewed by anyone; counts only for non-owners
	if gen.UserID() != cmd.UserID {
		if !gen.IsPublic() {
			return nil, errors.NewForbiddenError("generation belongs to another user")
		}
		gen.RecordView()
		if err := uc.genRepo.Update(ctx, gen); err != nil {
			uc.logger.Warnw("failed to record view", "error", err, "generation_id", gen.ID())
		}
	}

	return toGenerationResult(gen), nil
}
