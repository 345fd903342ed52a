package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/domain/generation"
	vo "github.com/pixamint/pixamint/internal/domain/generation/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/mappers"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/db"
	apperrors "github.com/pixamint/pixamint/internal/shared/errors"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) Create(ctx context.Context, g *generation.Generation) error {
	model := mappers.GenerationToModel(g)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}

	return g.SetID(model.ID)
}

func (r *GenerationRepository) GetByID(ctx context.Context, id uint) (*generation.Generation, error) {
	var model models.GenerationModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}

	return mappers.GenerationToDomain(&model)
}

func (r *GenerationRepository) GetBySID(ctx context.Context, sid string) (*generation.Generation, error) {
	var model models.GenerationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation by sid: %w", err)
	}

	return mappers.GenerationToDomain(&model)
}

func (r *GenerationRepository) Update(ctx context.Context, g *generation.Generation) error {
	model := mappers.GenerationToModel(g)

	// the version predicate keeps the reaper from overwriting a record a
	// worker finished after the sweep query
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.GenerationModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"asset_url":    model.AssetURL,
			"error_detail": model.ErrorDetail,
			"is_public":    model.IsPublic,
			"like_count":   model.LikeCount,
			"view_count":   model.ViewCount,
			"attempts":     model.Attempts,
			"started_at":   model.StartedAt,
			"completed_at": model.CompletedAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update generation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("generation was modified concurrently")
	}

	return nil
}

func (r *GenerationRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.GenerationModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete generation: %w", result.Error)
	}
	return nil
}

func (r *GenerationRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*generation.Generation, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.GenerationModel{}).
		Where("user_id = ?", userID)

	return r.paginate(query, page, pageSize)
}

func (r *GenerationRepository) ListPublic(ctx context.Context, page, pageSize int) ([]*generation.Generation, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.GenerationModel{}).
		Where("is_public = ? AND status = ?", true, vo.StatusCompleted.String())

	return r.paginate(query, page, pageSize)
}

func (r *GenerationRepository) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
	var genModels []models.GenerationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND started_at < ?", vo.StatusProcessing.String(), cutoff).
		Find(&genModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find stuck generations: %w", err)
	}

	return r.toDomainList(genModels)
}

func (r *GenerationRepository) FindFailedBefore(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
	var genModels []models.GenerationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND completed_at < ?", vo.StatusFailed.String(), cutoff).
		Find(&genModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find aged failed generations: %w", err)
	}

	return r.toDomainList(genModels)
}

func (r *GenerationRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.GenerationModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}

	return count, nil
}

func (r *GenerationRepository) paginate(query *gorm.DB, page, pageSize int) ([]*generation.Generation, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count generations: %w", err)
	}

	var genModels []models.GenerationModel
	if err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&genModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list generations: %w", err)
	}

	gens, err := r.toDomainList(genModels)
	if err != nil {
		return nil, 0, err
	}
	return gens, total, nil
}

func (r *GenerationRepository) toDomainList(genModels []models.GenerationModel) ([]*generation.Generation, error) {
	gens := make([]*generation.Generation, 0, len(genModels))
	for i := range genModels {
		g, err := mappers.GenerationToDomain(&genModels[i])
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return gens, nil
}
