package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/domain/payment"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/mappers"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/db"
	apperrors "github.com/pixamint/pixamint/internal/shared/errors"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) GetBySID(ctx context.Context, sid string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("sid = ?", sid).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by sid: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider_ref = ?", ref).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by provider ref: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"provider_ref":   model.ProviderRef,
			"failure_reason": model.FailureReason,
			"paid_at":        model.PaidAt,
			"refund_reason":  model.RefundReason,
			"refunded_at":    model.RefundedAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("payment was modified concurrently")
	}

	return nil
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var paymentModels []models.PaymentModel
	if err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&paymentModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		p, err := mappers.PaymentToDomain(&paymentModels[i])
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}

	return payments, total, nil
}

func (r *PaymentRepository) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	var paymentModels []models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("id DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments by subscription: %w", err)
	}

	payments := make([]*payment.Payment, 0, len(paymentModels))
	for i := range paymentModels {
		p, err := mappers.PaymentToDomain(&paymentModels[i])
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, nil
}
