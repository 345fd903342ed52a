package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	subvo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ExpireSubscriptionsCommand struct {
	// PendingPaymentMaxAge expires abandoned checkouts older than this.
	PendingPaymentMaxAge time.Duration
}

type ExpireSubscriptionsResult struct {
	Expired        int
	AbandonedSwept int
}

// ExpireSubscriptionsUseCase is the daily sweep. Lapsed subscriptions are
// expired and their ledgers dropped to the free allotment; abandoned
// pending_payment checkouts are expired without touching the ledger.
type ExpireSubscriptionsUseCase struct {
	subRepo         subscription.Repository
	ledgerRepo      ledger.Repository
	txManager       db.TxManager
	freeTierCredits int
	logger          logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subRepo subscription.Repository,
	ledgerRepo ledger.Repository,
	txManager db.TxManager,
	freeTierCredits int,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subRepo:         subRepo,
		ledgerRepo:      ledgerRepo,
		txManager:       txManager,
		freeTierCredits: freeTierCredits,
		logger:          logger,
	}
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context, cmd ExpireSubscriptionsCommand) (*ExpireSubscriptionsResult, error) {
	now := time.Now().UTC()
	result := &ExpireSubscriptionsResult{}

	lapsed, err := uc.subRepo.FindLapsed(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to find lapsed subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find lapsed subscriptions: %w", err)
	}

	for _, sub := range lapsed {
		// the sweep overlaps live webhook traffic; re-check state right
		// before mutating
		if !sub.IsPeriodLapsed(now) || sub.Status() == subvo.StatusExpired {
			continue
		}

		err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := sub.MarkExpired(); err != nil {
				return err
			}
			if err := uc.subRepo.Update(txCtx, sub); err != nil {
				return err
			}
			return uc.ledgerRepo.ResetToFreeTier(txCtx, sub.UserID(), uc.freeTierCredits)
		})
		if err != nil {
			// a renewal landing between the sweep query and this write bumps
			// the row version; leave the renewed subscription alone
			if errors.IsConflictError(err) {
				uc.logger.Debugw("subscription changed concurrently, skipping", "subscription_id", sub.ID())
				continue
			}
			uc.logger.Errorw("failed to expire subscription", "error", err, "subscription_id", sub.ID())
			continue
		}
		result.Expired++
	}

	maxAge := cmd.PendingPaymentMaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	stale, err := uc.subRepo.FindStalePendingPayment(ctx, now.Add(-maxAge))
	if err != nil {
		uc.logger.Errorw("failed to find stale pending subscriptions", "error", err)
		return result, fmt.Errorf("failed to find stale pending subscriptions: %w", err)
	}

	for _, sub := range stale {
		if err := sub.MarkExpired(); err != nil {
			uc.logger.Warnw("failed to expire abandoned checkout", "error", err, "subscription_id", sub.ID())
			continue
		}
		if err := uc.subRepo.Update(ctx, sub); err != nil {
			if errors.IsConflictError(err) {
				uc.logger.Debugw("checkout changed concurrently, skipping", "subscription_id", sub.ID())
				continue
			}
			uc.logger.Errorw("failed to update abandoned checkout", "error", err, "subscription_id", sub.ID())
			continue
		}
		result.AbandonedSwept++
	}

	if result.Expired > 0 || result.AbandonedSwept > 0 {
		uc.logger.Infow("expiry sweep finished",
			"expired", result.Expired,
			"abandoned_swept", result.AbandonedSwept,
		)
	}
	return result, nil
}
