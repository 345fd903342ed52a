package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/plan"
	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type CreatePlanCommand struct {
	Name            string
	DisplayName     string
	Description     string
	PriceCents      int64
	Currency        string
	BillingCycle    string
	CreditAllotment int
	ImageLimit      int
	Features        []string
	Priority        int
	ProviderPriceID string
}

// CreatePlanUseCase is the administrative entry for new catalog entries.
type CreatePlanUseCase struct {
	planRepo plan.Repository
	cache    PlanCache
	logger   logger.Interface
}

func NewCreatePlanUseCase(planRepo plan.Repository, cache PlanCache, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{planRepo: planRepo, cache: cache, logger: logger}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*PlanResult, error) {
	cycle, err := planvo.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	existing, err := uc.planRepo.GetByName(ctx, cmd.Name)
	if err != nil {
		uc.logger.Errorw("failed to check plan name", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to check plan name: %w", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("plan name already exists")
	}

	pl, err := plan.NewPlan(cmd.Name, cmd.DisplayName, cmd.Description, cmd.PriceCents,
		cmd.Currency, cycle, cmd.CreditAllotment, cmd.ImageLimit)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	pl.UpdateDetails(cmd.DisplayName, cmd.Description, cmd.Features, cmd.Priority)
	if cmd.ProviderPriceID != "" {
		pl.SetProviderPriceID(cmd.ProviderPriceID)
	}

	if err := uc.planRepo.Create(ctx, pl); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("plan name already exists")
		}
		uc.logger.Errorw("failed to create plan", "error", err, "name", cmd.Name)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	uc.invalidateCache(ctx)
	uc.logger.Infow("plan created", "plan_id", pl.ID(), "name", pl.Name())
	return toPlanResult(pl), nil
}

func (uc *CreatePlanUseCase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warnw("failed to invalidate plan cache", "error", err)
	}
}

type UpdatePlanCommand struct {
	SID         string
	DisplayName string
	Description string
	Features    []string
	Priority    int
}

type UpdatePlanUseCase struct {
	planRepo plan.Repository
	cache    PlanCache
	logger   logger.Interface
}

func NewUpdatePlanUseCase(planRepo plan.Repository, cache PlanCache, logger logger.Interface) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{planRepo: planRepo, cache: cache, logger: logger}
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*PlanResult, error) {
	pl, err := uc.planRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.SID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}

	pl.UpdateDetails(cmd.DisplayName, cmd.Description, cmd.Features, cmd.Priority)
	if err := uc.planRepo.Update(ctx, pl); err != nil {
		uc.logger.Errorw("failed to update plan", "error", err, "plan_id", pl.ID())
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate plan cache", "error", err)
		}
	}
	return toPlanResult(pl), nil
}

type DeactivatePlanCommand struct {
	SID string
}

// DeactivatePlanUseCase retires a plan from sale. Existing subscribers keep
// it until their own lifecycle moves them off.
type DeactivatePlanUseCase struct {
	planRepo plan.Repository
	cache    PlanCache
	logger   logger.Interface
}

func NewDeactivatePlanUseCase(planRepo plan.Repository, cache PlanCache, logger logger.Interface) *DeactivatePlanUseCase {
	return &DeactivatePlanUseCase{planRepo: planRepo, cache: cache, logger: logger}
}

func (uc *DeactivatePlanUseCase) Execute(ctx context.Context, cmd DeactivatePlanCommand) error {
	pl, err := uc.planRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.SID)
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return errors.NewNotFoundError("plan not found")
	}

	pl.Deactivate()
	if err := uc.planRepo.Update(ctx, pl); err != nil {
		uc.logger.Errorw("failed to deactivate plan", "error", err, "plan_id", pl.ID())
		return fmt.Errorf("failed to deactivate plan: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate plan cache", "error", err)
		}
	}
	uc.logger.Infow("plan deactivated", "plan_id", pl.ID(), "name", pl.Name())
	return nil
}
