package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// PlanResult is the application-layer view of a catalog entry.
type PlanResult struct {
	SID             string   `json:"sid"`
	Name            string   `json:"name"`
	DisplayName     string   `json:"display_name"`
	Description     string   `json:"description"`
	PriceCents      int64    `json:"price_cents"`
	Currency        string   `json:"currency"`
	BillingCycle    string   `json:"billing_cycle"`
	CreditAllotment int      `json:"credit_allotment"`
	ImageLimit      int      `json:"image_limit"`
	Features        []string `json:"features"`
	Priority        int      `json:"priority"`
}

func toPlanResult(pl *plan.Plan) *PlanResult {
	return &PlanResult{
		SID:             pl.SID(),
		Name:            pl.Name(),
		DisplayName:     pl.DisplayName(),
		Description:     pl.Description(),
		PriceCents:      pl.PriceCents(),
		Currency:        pl.Currency(),
		BillingCycle:    pl.BillingCycle().String(),
		CreditAllotment: pl.CreditAllotment(),
		ImageLimit:      pl.ImageLimit(),
		Features:        pl.Features(),
		Priority:        pl.Priority(),
	}
}

type ListPlansUseCase struct {
	planRepo plan.Repository
	cache    PlanCache
	logger   logger.Interface
}

func NewListPlansUseCase(planRepo plan.Repository, cache PlanCache, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo, cache: cache, logger: logger}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*PlanResult, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetActivePlans(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	plans, err := uc.planRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	results := make([]*PlanResult, 0, len(plans))
	for _, pl := range plans {
		results = append(results, toPlanResult(pl))
	}

	if uc.cache != nil {
		if err := uc.cache.SetActivePlans(ctx, results); err != nil {
			uc.logger.Warnw("failed to cache plans", "error", err)
		}
	}
	return results, nil
}

type GetPlanCommand struct {
	SID string
}

type GetPlanUseCase struct {
	planRepo plan.Repository
	logger   logger.Interface
}

func NewGetPlanUseCase(planRepo plan.Repository, logger logger.Interface) *GetPlanUseCase {
	return &GetPlanUseCase{planRepo: planRepo, logger: logger}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, cmd GetPlanCommand) (*PlanResult, error) {
	pl, err := uc.planRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.SID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}
	return toPlanResult(pl), nil
}
