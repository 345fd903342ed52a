package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type MarkPastDueCommand struct {
	SubscriptionID uint
}

// MarkPastDueUseCase suspends entitlements after a failed renewal charge.
// The ledger is untouched; unused credits survive until expiry.
type MarkPastDueUseCase struct {
	subRepo  subscription.Repository
	planRepo plan.Repository
	userRepo user.Repository
	notifier Notifier
	logger   logger.Interface
}

func NewMarkPastDueUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	userRepo user.Repository,
	notifier Notifier,
	logger logger.Interface,
) *MarkPastDueUseCase {
	return &MarkPastDueUseCase{
		subRepo:  subRepo,
		planRepo: planRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *MarkPastDueUseCase) Execute(ctx context.Context, cmd MarkPastDueCommand) error {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("subscription not found")
	}

	if err := sub.MarkPastDue(); err != nil {
		return errors.NewInvalidTransitionError(err.Error())
	}
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Warnw("subscription past due",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
	)

	usr, err := uc.userRepo.GetByID(ctx, sub.UserID())
	if err != nil || usr == nil {
		return nil
	}
	planName := ""
	if pl, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil && pl != nil {
		planName = pl.DisplayName()
	}
	if err := uc.notifier.SendPaymentFailed(ctx, usr.Email(), usr.Name(), planName); err != nil {
		uc.logger.Warnw("failed to send payment failed email", "error", err, "user_id", sub.UserID())
	}
	return nil
}
