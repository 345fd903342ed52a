package mappers

import (
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/payment"
	vo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:             p.ID(),
		SID:            p.SID(),
		UserID:         p.UserID(),
		SubscriptionID: p.SubscriptionID(),
		AmountCents:    p.Amount().AmountCents(),
		Currency:       p.Amount().Currency(),
		Purpose:        string(p.Purpose()),
		Status:         p.Status().String(),
		ProviderRef:    p.ProviderRef(),
		FailureReason:  p.FailureReason(),
		RefundReason:   p.RefundReason(),
		PaidAt:         p.PaidAt(),
		RefundedAt:     p.RefundedAt(),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	amount, err := vo.NewMoney(model.AmountCents, model.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid payment amount: %w", err)
	}

	return payment.Reconstruct(payment.ReconstructParams{
		ID:             model.ID,
		SID:            model.SID,
		UserID:         model.UserID,
		SubscriptionID: model.SubscriptionID,
		Amount:         amount,
		Purpose:        payment.Purpose(model.Purpose),
		Status:         vo.Status(model.Status),
		ProviderRef:    model.ProviderRef,
		FailureReason:  model.FailureReason,
		RefundReason:   model.RefundReason,
		PaidAt:         model.PaidAt,
		RefundedAt:     model.RefundedAt,
		Version:        model.Version,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
}
