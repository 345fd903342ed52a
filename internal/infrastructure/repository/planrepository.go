package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/mappers"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/db"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	model, err := mappers.PlanToModel(p)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *PlanRepository) GetByID(ctx context.Context, planID uint) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) GetBySID(ctx context.Context, sid string) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan by sid: %w", err)
	}

	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("name = ?", name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan by name: %w", err)
	}

	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	model, err := mappers.PlanToModel(p)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"display_name":      model.DisplayName,
			"description":       model.Description,
			"features":          model.Features,
			"provider_price_id": model.ProviderPriceID,
			"active":            model.Active,
			"priority":          model.Priority,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	return nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	var planModels []models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("active = ?", true).
		Order("priority ASC, price_cents ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	return r.toDomainList(planModels)
}

func (r *PlanRepository) ListAll(ctx context.Context) ([]*plan.Plan, error) {
	var planModels []models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Order("priority ASC, price_cents ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return r.toDomainList(planModels)
}

func (r *PlanRepository) toDomainList(planModels []models.PlanModel) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0, len(planModels))
	for i := range planModels {
		p, err := mappers.PlanToDomain(&planModels[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
