package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type GetSubscriptionCommand struct {
	UserID uint
}

type GetSubscriptionUseCase struct {
	subRepo subscription.Repository
	logger  logger.Interface
}

func NewGetSubscriptionUseCase(subRepo subscription.Repository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{subRepo: subRepo, logger: logger}
}

// Execute returns the user's current subscription, falling back to the most
// recent historical one so clients can still show a lapsed plan.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, cmd GetSubscriptionCommand) (*SubscriptionResult, error) {
	sub, err := uc.subRepo.GetLiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		sub, err = uc.subRepo.GetLatestByUserID(ctx, cmd.UserID)
		if err != nil {
			uc.logger.Errorw("failed to get latest subscription", "error", err, "user_id", cmd.UserID)
			return nil, fmt.Errorf("failed to get latest subscription: %w", err)
		}
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("no subscription found")
	}

	return toSubscriptionResult(sub, time.Now().UTC()), nil
}
