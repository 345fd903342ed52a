package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type PurgeFailedGenerationsCommand struct {
	// Retention keeps failed records visible in history this long before
	// the purge removes them.
	Retention time.Duration
}

// PurgeFailedGenerationsUseCase deletes failed records past retention along
// with any stored asset. A failed retry can still reference the asset from
// an earlier successful attempt, so the purge removes both.
type PurgeFailedGenerationsUseCase struct {
	genRepo generation.Repository
	assets  services.AssetStore
	logger  logger.Interface
}

func NewPurgeFailedGenerationsUseCase(
	genRepo generation.Repository,
	assets services.AssetStore,
	logger logger.Interface,
) *PurgeFailedGenerationsUseCase {
	return &PurgeFailedGenerationsUseCase{genRepo: genRepo, assets: assets, logger: logger}
}

func (uc *PurgeFailedGenerationsUseCase) Execute(ctx context.Context, cmd PurgeFailedGenerationsCommand) (int, error) {
	retention := cmd.Retention
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}

	cutoff := time.Now().UTC().Add(-retention)

	aged, err := uc.genRepo.FindFailedBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Errorw("failed to find aged failed generations", "error", err)
		return 0, fmt.Errorf("failed to find aged failed generations: %w", err)
	}

	purged := 0
	for _, gen := range aged {
		if err := uc.genRepo.Delete(ctx, gen.ID()); err != nil {
			uc.logger.Errorw("failed to purge generation", "error", err, "generation_id", gen.ID())
			continue
		}

		// best effort; an orphaned asset is harmless
		if gen.AssetURL() != nil {
			if err := uc.assets.Delete(ctx, gen.SID()+".png"); err != nil {
				uc.logger.Warnw("failed to delete asset", "error", err, "generation_id", gen.ID())
			}
		}

		purged++
	}

	if purged > 0 {
		uc.logger.Infow("aged failed generations purged", "purged", purged, "cutoff", cutoff)
	}
	return purged, nil
}
