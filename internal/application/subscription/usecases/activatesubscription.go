package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ActivateSubscriptionCommand struct {
	SubscriptionID uint
	ProviderSubRef string
}

// ActivateSubscriptionUseCase opens the first billing period after a
// confirmed payment. The status transition and the ledger reset commit as
// one transaction.
type ActivateSubscriptionUseCase struct {
	subRepo    subscription.Repository
	planRepo   plan.Repository
	ledgerRepo ledger.Repository
	userRepo   user.Repository
	txManager  db.TxManager
	notifier   Notifier
	logger     logger.Interface
}

func NewActivateSubscriptionUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	ledgerRepo ledger.Repository,
	userRepo user.Repository,
	txManager db.TxManager,
	notifier Notifier,
	logger logger.Interface,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		subRepo:    subRepo,
		planRepo:   planRepo,
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, cmd ActivateSubscriptionCommand) error {
	sub, err := uc.subRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("subscription not found")
	}

	pl, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_id", sub.PlanID())
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return errors.NewNotFoundError("plan not found")
	}

	now := time.Now().UTC()
	periodEnd := sub.BillingCycle().NextPeriodEnd(now)

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Activate(now, periodEnd); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
		}
		if cmd.ProviderSubRef != "" && sub.ProviderSubRef() == nil {
			if err := sub.SetProviderSubRef(cmd.ProviderSubRef); err != nil {
				return err
			}
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
		uc.logger.Errorw("failed to activate subscription", "error", err, "subscription_id", cmd.SubscriptionID)
		return err
	}

	uc.logger.Infow("subscription activated",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"plan", pl.Name(),
		"period_end", periodEnd,
	)

	uc.notifyActivated(ctx, sub.UserID(), pl.DisplayName())
	return nil
}

func (uc *ActivateSubscriptionUseCase) notifyActivated(ctx context.Context, userID uint, planName string) {
	usr, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil || usr == nil {
		uc.logger.Warnw("failed to load user for notification", "error", err, "user_id", userID)
		return
	}
	if err := uc.notifier.SendSubscriptionActivated(ctx, usr.Email(), usr.Name(), planName); err != nil {
		uc.logger.Warnw("failed to send activation email", "error", err, "user_id", userID)
	}
}
