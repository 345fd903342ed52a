package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type GetBalanceCommand struct {
	UserID uint
}

type BalanceResult struct {
	CreditsRemaining int
	ImagesGenerated  int
	CurrentPlanID    *uint
}

type GetBalanceUseCase struct {
	ledgerRepo ledger.Repository
	logger     logger.Interface
}

func NewGetBalanceUseCase(ledgerRepo ledger.Repository, logger logger.Interface) *GetBalanceUseCase {
	return &GetBalanceUseCase{ledgerRepo: ledgerRepo, logger: logger}
}

func (uc *GetBalanceUseCase) Execute(ctx context.Context, cmd GetBalanceCommand) (*BalanceResult, error) {
	led, err := uc.ledgerRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get ledger", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	if led == nil {
		return nil, errors.NewNotFoundError("ledger not found")
	}

	return &BalanceResult{
		CreditsRemaining: led.CreditsRemaining(),
		ImagesGenerated:  led.ImagesGenerated(),
		CurrentPlanID:    led.CurrentPlanID(),
	}, nil
}
