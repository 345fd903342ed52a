package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/mappers"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/db"
)

// LedgerRepository persists the credit ledger, which lives on the account
// row. Reservation is a single conditional UPDATE so concurrent requests
// cannot oversell the balance.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, l *ledger.Ledger) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", l.UserID()).
		Updates(map[string]interface{}{
			"credits_remaining": l.CreditsRemaining(),
			"images_generated":  l.ImagesGenerated(),
			"current_plan_id":   l.CurrentPlanID(),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to initialize ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no account row for user %d", l.UserID())
	}
	return nil
}

func (r *LedgerRepository) GetByUserID(ctx context.Context, userID uint) (*ledger.Ledger, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}

	return mappers.LedgerToDomain(&model)
}

func (r *LedgerRepository) Update(ctx context.Context, l *ledger.Ledger) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ? AND version = ?", l.UserID(), l.Version()-1).
		Updates(map[string]interface{}{
			"credits_remaining": l.CreditsRemaining(),
			"images_generated":  l.ImagesGenerated(),
			"current_plan_id":   l.CurrentPlanID(),
			"version":           l.Version(),
			"updated_at":        l.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ledger for user %d was modified concurrently", l.UserID())
	}
	return nil
}

func (r *LedgerRepository) ReserveCredits(ctx context.Context, userID uint, amount int) (bool, error) {
	// The balance check and decrement are one statement; RowsAffected == 0
	// means the balance did not cover the reservation.
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ? AND credits_remaining >= ?", userID, amount).
		Updates(map[string]interface{}{
			"credits_remaining": gorm.Expr("credits_remaining - ?", amount),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to reserve credits: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LedgerRepository) RefundCredits(ctx context.Context, userID uint, amount int) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"credits_remaining": gorm.Expr("credits_remaining + ?", amount),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to refund credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no account row for user %d", userID)
	}
	return nil
}

func (r *LedgerRepository) IncrementImagesGenerated(ctx context.Context, userID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"images_generated": gorm.Expr("images_generated + 1"),
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment images generated: %w", result.Error)
	}
	return nil
}

func (r *LedgerRepository) ResetForPeriod(ctx context.Context, userID uint, allotment int, planID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"credits_remaining": allotment,
			"current_plan_id":   planID,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reset ledger for period: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no account row for user %d", userID)
	}
	return nil
}

func (r *LedgerRepository) ResetToFreeTier(ctx context.Context, userID uint, freeCredits int) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"credits_remaining": freeCredits,
			"current_plan_id":   nil,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reset ledger to free tier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no account row for user %d", userID)
	}
	return nil
}
