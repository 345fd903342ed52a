package usecases

import (
	"context"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type mockLedgerRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID uint) (*ledger.Ledger, error)
}

func (m *mockLedgerRepository) Create(ctx context.Context, l *ledger.Ledger) error { return nil }

func (m *mockLedgerRepository) GetByUserID(ctx context.Context, userID uint) (*ledger.Ledger, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockLedgerRepository) Update(ctx context.Context, l *ledger.Ledger) error { return nil }

func (m *mockLedgerRepository) ReserveCredits(ctx context.Context, userID uint, amount int) (bool, error) {
	return true, nil
}

func (m *mockLedgerRepository) RefundCredits(ctx context.Context, userID uint, amount int) error {
	return nil
}

func (m *mockLedgerRepository) IncrementImagesGenerated(ctx context.Context, userID uint) error {
	return nil
}

func (m *mockLedgerRepository) ResetForPeriod(ctx context.Context, userID uint, allotment int, planID uint) error {
	return nil
}

func (m *mockLedgerRepository) ResetToFreeTier(ctx context.Context, userID uint, freeCredits int) error {
	return nil
}

type mockSubscriptionRepository struct {
	subscription.Repository

	GetLiveByUserIDFunc func(ctx context.Context, userID uint) (*subscription.Subscription, error)
}

func (m *mockSubscriptionRepository) GetLiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	if m.GetLiveByUserIDFunc != nil {
		return m.GetLiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockPlanRepository struct {
	plan.Repository

	GetByIDFunc func(ctx context.Context, planID uint) (*plan.Plan, error)
}

func (m *mockPlanRepository) GetByID(ctx context.Context, planID uint) (*plan.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, planID)
	}
	return nil, nil
}

type mockLogger struct{}

func (mockLogger) Debug(msg string, args ...any)                   {}
func (mockLogger) Info(msg string, args ...any)                    {}
func (mockLogger) Warn(msg string, args ...any)                    {}
func (mockLogger) Error(msg string, args ...any)                   {}
func (mockLogger) Fatal(msg string, args ...any)                   {}
func (m mockLogger) With(args ...any) logger.Interface             { return m }
func (m mockLogger) Named(name string) logger.Interface            { return m }
func (mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
