package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	SubscriptionID uint
}

// RenewSubscriptionUseCase advances the billing period after the provider
// confirms a renewal charge. A scheduled plan change takes effect here; the
// ledger is reset to the (possibly new) plan's allotment atomically with
// the period extension.
type RenewSubscriptionUseCase struct {
	subRepo    subscription.Repository
	planRepo   plan.Repository
	ledgerRepo ledger.Repository
	txManager  db.TxManager
	logger     logger.Interface
}

func NewRenewSubscriptionUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	ledgerRepo ledger.Repository,
	txManager db.TxManager,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		subRepo:    subRepo,
		planRepo:   planRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) error {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("subscription not found")
	}

	newPeriodEnd := sub.BillingCycle().NextPeriodEnd(sub.CurrentPeriodEnd())

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Renew(newPeriodEnd); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
		}

		// Renew applied any scheduled change, so the plan lookup must come
		// after it
		pl, err := uc.planRepo.GetByID(txCtx, sub.PlanID())
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if pl == nil {
			return errors.NewNotFoundError("plan not found")
		}

		if err := uc.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if err := uc.ledgerRepo.ResetForPeriod(txCtx, sub.UserID(), pl.CreditAllotment(), pl.ID()); err != nil {
			return fmt.Errorf("failed to reset ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to renew subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return err
	}

	uc.logger.Infow("subscription renewed",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"plan_id", sub.PlanID(),
		"period_end", newPeriodEnd,
	)
	return nil
}
