package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type CheckUsageCommand struct {
	UserID uint
}

// Authorization is the admission decision for one generation attempt. It is
// advisory only; the actual credit reservation happens atomically at the
// storage layer when the attempt is created.
type Authorization struct {
	Allowed          bool
	CreditsRemaining int
	ImagesUsed       int
	ImageLimit       int
	PlanID           *uint
	Reason           string
}

type CheckUsageUseCase struct {
	ledgerRepo ledger.Repository
	subRepo    subscription.Repository
	planRepo   plan.Repository
	logger     logger.Interface
}

func NewCheckUsageUseCase(
	ledgerRepo ledger.Repository,
	subRepo subscription.Repository,
	planRepo plan.Repository,
	logger logger.Interface,
) *CheckUsageUseCase {
	return &CheckUsageUseCase{
		ledgerRepo: ledgerRepo,
		subRepo:    subRepo,
		planRepo:   planRepo,
		logger:     logger,
	}
}

func (uc *CheckUsageUseCase) Execute(ctx context.Context, cmd CheckUsageCommand) (*Authorization, error) {
	led, err := uc.ledgerRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get ledger", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	if led == nil {
		return nil, errors.NewNotFoundError("ledger not found")
	}

	auth := &Authorization{
		CreditsRemaining: led.CreditsRemaining(),
		PlanID:           led.CurrentPlanID(),
	}

	if led.CreditsRemaining() <= 0 {
		auth.Reason = "no credits remaining"
		return auth, nil
	}

	sub, err := uc.subRepo.GetLiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	// free tier: credits alone decide
	if sub == nil || !sub.IsActive(time.Now().UTC()) {
		auth.Allowed = true
		return auth, nil
	}

	pl, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", sub.PlanID())
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}

	auth.ImagesUsed = sub.ImagesUsed()
	auth.ImageLimit = pl.ImageLimit()

	if sub.ImagesUsed() >= pl.ImageLimit() {
		auth.Reason = "plan image limit reached for this period"
		return auth, nil
	}

	auth.Allowed = true
	return auth, nil
}
