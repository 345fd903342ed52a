package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ReactivateSubscriptionCommand struct {
	UserID uint
	SID    string
}

// ReactivateSubscriptionUseCase restores a cancelled or expired subscription
// whose paid period has not yet lapsed. The plan allotment is restored on
// the ledger in the same transaction.
type ReactivateSubscriptionUseCase struct {
	subRepo    subscription.Repository
	planRepo   plan.Repository
	ledgerRepo ledger.Repository
	txManager  db.TxManager
	logger     logger.Interface
}

func NewReactivateSubscriptionUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	ledgerRepo ledger.Repository,
	txManager db.TxManager,
	logger logger.Interface,
) *ReactivateSubscriptionUseCase {
	return &ReactivateSubscriptionUseCase{
		subRepo:    subRepo,
		planRepo:   planRepo,
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *ReactivateSubscriptionUseCase) Execute(ctx context.Context, cmd ReactivateSubscriptionCommand) (*SubscriptionResult, error) {
	sub, err := uc.subRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	if sub.UserID() != cmd.UserID {
		return nil, errors.NewForbiddenError("subscription belongs to another user")
	}

	pl, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}

	now := time.Now().UTC()
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Reactivate(now); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
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
		uc.logger.Errorw("failed to reactivate subscription", "error", err, "sid", cmd.SID)
		return nil, err
	}

	uc.logger.Infow("subscription reactivated",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"period_end", sub.CurrentPeriodEnd(),
	)

	return toSubscriptionResult(sub, now), nil
}
