package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/generation"
	genvo "github.com/pixamint/pixamint/internal/domain/generation/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type SetVisibilityCommand struct {
	UserID uint
	SID    string
	Public bool
}

type SetVisibilityUseCase struct {
	genRepo generation.Repository
	logger  logger.Interface
}

func NewSetVisibilityUseCase(genRepo generation.Repository, logger logger.Interface) *SetVisibilityUseCase {
	return &SetVisibilityUseCase{genRepo: genRepo, logger: logger}
}

func (uc *SetVisibilityUseCase) Execute(ctx context.Context, cmd SetVisibilityCommand) error {
	gen, err := uc.genRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get generation", "error", err, "sid", cmd.SID)
		return fmt.Errorf("failed to get generation: %w", err)
	}
	if gen == nil {
		return errors.NewNotFoundError("generation not found")
	}
	if gen.UserID() != cmd.UserID {
		return errors.NewForbiddenError("generation belongs to another user")
	}
	if cmd.Public && gen.Status() != genvo.StatusCompleted {
		return errors.NewConflictError("only completed generations can be published")
	}

	gen.SetVisibility(cmd.Public)
	if err := uc.genRepo.Update(ctx, gen); err != nil {
		uc.logger.Errorw("failed to update generation", "error", err, "generation_id", gen.ID())
		return fmt.Errorf("failed to update generation: %w", err)
	}

	return nil
}

type LikeGenerationCommand struct {
	SID string
}

type LikeGenerationUseCase struct {
	genRepo generation.Repository
	logger  logger.Interface
}

func NewLikeGenerationUseCase(genRepo generation.Repository, logger logger.Interface) *LikeGenerationUseCase {
	return &LikeGenerationUseCase{genRepo: genRepo, logger: logger}
}

func (uc *LikeGenerationUseCase) Execute(ctx context.Context, cmd LikeGenerationCommand) error {
	gen, err := uc.genRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get generation", "error", err, "sid", cmd.SID)
		return fmt.Errorf("failed to get generation: %w", err)
	}
	if gen == nil {
		return errors.NewNotFoundError("generation not found")
	}
	if !gen.IsPublic() {
		return errors.NewForbiddenError("generation is not public")
	}

	gen.RecordLike()
	if err := uc.genRepo.Update(ctx, gen); err != nil {
		uc.logger.Errorw("failed to record like", "error", err, "generation_id", gen.ID())
		return fmt.Errorf("failed to record like: %w", err)
	}

	return nil
}
