package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/domain/payment"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ListPaymentsCommand struct {
	UserID   uint
	Page     int
	PageSize int
}

type PaymentResult struct {
	SID           string     `json:"sid"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Purpose       string     `json:"purpose"`
	Status        string     `json:"status"`
	FailureReason *string    `json:"failure_reason,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ListPaymentsResult struct {
	Items    []*PaymentResult `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ListPaymentsUseCase struct {
	paymentRepo payment.Repository
	logger      logger.Interface
}

func NewListPaymentsUseCase(paymentRepo payment.Repository, logger logger.Interface) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo, logger: logger}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, cmd ListPaymentsCommand) (*ListPaymentsResult, error) {
	page := cmd.Page
	if page < 1 {
		page = 1
	}
	pageSize := cmd.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	payments, total, err := uc.paymentRepo.ListByUserID(ctx, cmd.UserID, page, pageSize)
	if err != nil {
		uc.logger.Errorw("failed to list payments", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	items := make([]*PaymentResult, 0, len(payments))
	for _, p := range payments {
		items = append(items, &PaymentResult{
			SID:           p.SID(),
			AmountCents:   p.Amount().AmountCents(),
			Currency:      p.Amount().Currency(),
			Purpose:       string(p.Purpose()),
			Status:        p.Status().String(),
			FailureReason: p.FailureReason(),
			PaidAt:        p.PaidAt(),
			CreatedAt:     p.CreatedAt(),
		})
	}

	return &ListPaymentsResult{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
