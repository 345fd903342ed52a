package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type WarnExpiringCommand struct {
	// DaysAhead lists the warning horizons, e.g. [3, 1].
	DaysAhead []int
}

// WarnExpiringUseCase emails users whose non-renewing subscription runs out
// within the configured horizons.
type WarnExpiringUseCase struct {
	subRepo  subscription.Repository
	planRepo plan.Repository
	userRepo user.Repository
	notifier Notifier
	logger   logger.Interface
}

func NewWarnExpiringUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	userRepo user.Repository,
	notifier Notifier,
	logger logger.Interface,
) *WarnExpiringUseCase {
	return &WarnExpiringUseCase{
		subRepo:  subRepo,
		planRepo: planRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *WarnExpiringUseCase) Execute(ctx context.Context, cmd WarnExpiringCommand) (int, error) {
	daysAhead := cmd.DaysAhead
	if len(daysAhead) == 0 {
		daysAhead = []int{3, 1}
	}

	now := time.Now().UTC()
	maxDays := 0
	for _, d := range daysAhead {
		if d > maxDays {
			maxDays = d
		}
	}

	subs, err := uc.subRepo.FindExpiring(ctx, now, maxDays)
	if err != nil {
		uc.logger.Errorw("failed to find expiring subscriptions", "error", err)
		return 0, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	horizons := make(map[int]bool, len(daysAhead))
	for _, d := range daysAhead {
		horizons[d] = true
	}

	warned := 0
	for _, sub := range subs {
		daysLeft := sub.DaysRemaining(now)
		if !horizons[daysLeft] {
			continue
		}

		usr, err := uc.userRepo.GetByID(ctx, sub.UserID())
		if err != nil || usr == nil {
			uc.logger.Warnw("failed to load user for expiry warning", "error", err, "user_id", sub.UserID())
			continue
		}
		planName := ""
		if pl, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil && pl != nil {
			planName = pl.DisplayName()
		}

		if err := uc.notifier.SendExpiryWarning(ctx, usr.Email(), usr.Name(), planName, daysLeft); err != nil {
			uc.logger.Warnw("failed to send expiry warning", "error", err, "user_id", sub.UserID())
			continue
		}
		warned++
	}

	if warned > 0 {
		uc.logger.Infow("expiry warning sweep finished", "warned", warned)
	}
	return warned, nil
}
