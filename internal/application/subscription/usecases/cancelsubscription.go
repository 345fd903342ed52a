package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID    uint
	SID       string
	Reason    string
	Immediate bool
}

// CancelSubscriptionUseCase ends a subscription. Immediate cancellation
// drops the ledger back to the free allotment in the same transaction;
// at-period-end cancellation only disables auto-renew.
type CancelSubscriptionUseCase struct {
	subRepo         subscription.Repository
	ledgerRepo      ledger.Repository
	planRepo        plan.Repository
	userRepo        user.Repository
	gateway         paymentgateway.Gateway
	txManager       db.TxManager
	notifier        Notifier
	freeTierCredits int
	logger          logger.Interface
}

func NewCancelSubscriptionUseCase(
	subRepo subscription.Repository,
	ledgerRepo ledger.Repository,
	planRepo plan.Repository,
	userRepo user.Repository,
	gateway paymentgateway.Gateway,
	txManager db.TxManager,
	notifier Notifier,
	freeTierCredits int,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subRepo:         subRepo,
		ledgerRepo:      ledgerRepo,
		planRepo:        planRepo,
		userRepo:        userRepo,
		gateway:         gateway,
		txManager:       txManager,
		notifier:        notifier,
		freeTierCredits: freeTierCredits,
		logger:          logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) error {
	sub, err := uc.subRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SID)
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("subscription not found")
	}
	if sub.UserID() != cmd.UserID {
		return errors.NewForbiddenError("subscription belongs to another user")
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "user requested"
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Cancel(reason, cmd.Immediate); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
		}
		if err := uc.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if cmd.Immediate {
			if err := uc.ledgerRepo.ResetToFreeTier(txCtx, sub.UserID(), uc.freeTierCredits); err != nil {
				return fmt.Errorf("failed to reset ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel subscription", "error", err, "sid", cmd.SID)
		return err
	}

	// upstream cancellation is best effort; the reconciler mirrors any
	// provider-side cancellation back anyway
	if sub.ProviderSubRef() != nil {
		if err := uc.gateway.CancelSubscription(ctx, *sub.ProviderSubRef()); err != nil {
			uc.logger.Warnw("failed to cancel provider subscription", "error", err, "sid", cmd.SID)
		}
	}

	uc.logger.Infow("subscription cancelled",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"reason", reason,
		"immediate", cmd.Immediate,
		"status", sub.Status(),
	)

	uc.notifyCancelled(ctx, sub)
	return nil
}

func (uc *CancelSubscriptionUseCase) notifyCancelled(ctx context.Context, sub *subscription.Subscription) {
	usr, err := uc.userRepo.GetByID(ctx, sub.UserID())
	if err != nil || usr == nil {
		return
	}
	planName := ""
	if pl, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil && pl != nil {
		planName = pl.DisplayName()
	}
	if err := uc.notifier.SendSubscriptionCancelled(ctx, usr.Email(), usr.Name(), planName); err != nil {
		uc.logger.Warnw("failed to send cancellation email", "error", err, "user_id", sub.UserID())
	}
}
