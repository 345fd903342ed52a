package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ResetUsageCommand struct{}

// ResetUsageUseCase is the monthly sweep zeroing per-period usage counters
// on active subscriptions. Ledger balances are untouched; those reset with
// billing events, not the calendar.
type ResetUsageUseCase struct {
	subRepo subscription.Repository
	logger  logger.Interface
}

func NewResetUsageUseCase(subRepo subscription.Repository, logger logger.Interface) *ResetUsageUseCase {
	return &ResetUsageUseCase{subRepo: subRepo, logger: logger}
}

func (uc *ResetUsageUseCase) Execute(ctx context.Context, _ ResetUsageCommand) (int, error) {
	subs, err := uc.subRepo.FindActiveForUsageReset(ctx)
	if err != nil {
		uc.logger.Errorw("failed to find subscriptions for usage reset", "error", err)
		return 0, fmt.Errorf("failed to find subscriptions for usage reset: %w", err)
	}

	reset := 0
	for _, sub := range subs {
		sub.ResetUsage()
		if err := uc.subRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to reset usage", "error", err, "subscription_id", sub.ID())
			continue
		}
		reset++
	}

	if reset > 0 {
		uc.logger.Infow("usage reset sweep finished", "reset", reset)
	}
	return reset, nil
}
