package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type DeleteGenerationCommand struct {
	UserID uint
	SID    string
}

type DeleteGenerationUseCase struct {
	genRepo generation.Repository
	assets  services.AssetStore
	logger  logger.Interface
}

func NewDeleteGenerationUseCase(
	genRepo generation.Repository,
	assets services.AssetStore,
	logger logger.Interface,
) *DeleteGenerationUseCase {
	return &DeleteGenerationUseCase{genRepo: genRepo, assets: assets, logger: logger}
}

func (uc *DeleteGenerationUseCase) Execute(ctx context.Context, cmd DeleteGenerationCommand) error {
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
	if !gen.Status().IsTerminal() {
		return errors.NewConflictError("generation is still in progress")
	}

	if err := uc.genRepo.Delete(ctx, gen.ID()); err != nil {
		uc.logger.Errorw("failed to delete generation", "error", err, "generation_id", gen.ID())
		return fmt.Errorf("failed to delete generation: %w", err)
	}

	// best effort; an orphaned asset is harmless
	if gen.AssetURL() != nil {
		if err := uc.assets.Delete(ctx, gen.SID()+".png"); err != nil {
			uc.logger.Warnw("failed to delete asset", "error", err, "generation_id", gen.ID())
		}
	}

	uc.logger.Infow("generation deleted", "generation_id", gen.ID(), "user_id", cmd.UserID)
	return nil
}
