package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/domain/payment"
	paymentvo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/biztime"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// refundWindow is how long after settlement a payment stays refundable.
const refundWindow = 30 * 24 * time.Hour

type RequestRefundCommand struct {
	PaymentSID string
	UserID     uint
	Reason     string
}

type RequestRefundUseCase struct {
	paymentRepo payment.Repository
	gateway     paymentgateway.Gateway
	logger      logger.Interface
}

func NewRequestRefundUseCase(
	paymentRepo payment.Repository,
	gateway paymentgateway.Gateway,
	logger logger.Interface,
) *RequestRefundUseCase {
	return &RequestRefundUseCase{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

func (uc *RequestRefundUseCase) Execute(ctx context.Context, cmd RequestRefundCommand) (*PaymentResult, error) {
	pay, err := uc.paymentRepo.GetBySID(ctx, cmd.PaymentSID)
	if err != nil {
		uc.logger.Errorw("failed to get payment", "error", err, "payment_sid", cmd.PaymentSID)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if pay == nil || pay.UserID() != cmd.UserID {
		return nil, errors.NewNotFoundError("Payment not found")
	}

	if pay.Status() == paymentvo.StatusRefunded {
		return nil, errors.NewConflictError("Payment has already been refunded")
	}
	if pay.Status() != paymentvo.StatusSucceeded {
		return nil, errors.NewBadRequestError("Only settled payments can be refunded")
	}

	settledAt := pay.CreatedAt()
	if pay.PaidAt() != nil {
		settledAt = *pay.PaidAt()
	}
	if biztime.NowUTC().Sub(settledAt) > refundWindow {
		return nil, errors.NewBadRequestError("Refund period has expired")
	}

	if pay.ProviderRef() != nil {
		refundRef, err := uc.gateway.Refund(ctx, paymentgateway.RefundParams{
			ProviderPaymentRef: *pay.ProviderRef(),
			Reason:             cmd.Reason,
		})
		if err != nil {
			uc.logger.Errorw("provider refund failed", "error", err, "payment_sid", cmd.PaymentSID)
			return nil, errors.NewPaymentFailedError("Refund processing failed")
		}
		uc.logger.Infow("provider refund created", "payment_sid", cmd.PaymentSID, "refund_ref", refundRef)
	}

	if err := pay.MarkRefunded(cmd.Reason, biztime.NowUTC()); err != nil {
		return nil, errors.NewInvalidTransitionError("Payment cannot be refunded", err.Error())
	}
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		uc.logger.Errorw("failed to update payment", "error", err, "payment_sid", cmd.PaymentSID)
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	uc.logger.Infow("payment refunded",
		"payment_sid", pay.SID(),
		"user_id", pay.UserID(),
		"amount_cents", pay.Amount().AmountCents(),
	)

	return &PaymentResult{
		SID:           pay.SID(),
		AmountCents:   pay.Amount().AmountCents(),
		Currency:      pay.Amount().Currency(),
		Purpose:       string(pay.Purpose()),
		Status:        pay.Status().String(),
		FailureReason: pay.FailureReason(),
		PaidAt:        pay.PaidAt(),
		CreatedAt:     pay.CreatedAt(),
	}, nil
}
