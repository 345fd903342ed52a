package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	subvo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func gateFixtures(t *testing.T, credits, imagesUsed, imageLimit int) (*ledger.Ledger, *subscription.Subscription, *plan.Plan) {
	t.Helper()

	planID := uint(2)
	led, err := ledger.Reconstruct(7, credits, 0, &planID, 1, time.Now().UTC())
	require.NoError(t, err)

	pl, err := plan.NewPlan("pro", "Pro", "", 1999, "USD", planvo.BillingCycleMonthly, 100, imageLimit)
	require.NoError(t, err)
	require.NoError(t, pl.SetID(planID))

	sub, err := subscription.NewSubscription("sub_gate1", 7, planID, planvo.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, sub.SetID(11))
	now := time.Now().UTC()
	require.NoError(t, sub.Activate(now.AddDate(0, 0, -10), now.AddDate(0, 0, 20)))
	for i := 0; i < imagesUsed; i++ {
		sub.RecordImageUse()
	}
	return led, sub, pl
}

func newGate(led *ledger.Ledger, sub *subscription.Subscription, pl *plan.Plan) *CheckUsageUseCase {
	ledgerRepo := &mockLedgerRepository{
		GetByUserIDFunc: func(ctx context.Context, userID uint) (*ledger.Ledger, error) {
			return led, nil
		},
	}
	subRepo := &mockSubscriptionRepository{
		GetLiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	planRepo := &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, planID uint) (*plan.Plan, error) {
			return pl, nil
		},
	}
	return NewCheckUsageUseCase(ledgerRepo, subRepo, planRepo, mockLogger{})
}

func TestCheckUsage_AllowedWithinLimits(t *testing.T) {
	led, sub, pl := gateFixtures(t, 50, 10, 200)
	auth, err := newGate(led, sub, pl).Execute(context.Background(), CheckUsageCommand{UserID: 7})
	require.NoError(t, err)

	assert.True(t, auth.Allowed)
	assert.Equal(t, 50, auth.CreditsRemaining)
	assert.Equal(t, 10, auth.ImagesUsed)
	assert.Equal(t, 200, auth.ImageLimit)
}

func TestCheckUsage_NoCredits(t *testing.T) {
	led, sub, pl := gateFixtures(t, 0, 10, 200)
	auth, err := newGate(led, sub, pl).Execute(context.Background(), CheckUsageCommand{UserID: 7})
	require.NoError(t, err)

	assert.False(t, auth.Allowed)
	assert.Equal(t, "no credits remaining", auth.Reason)
}

func TestCheckUsage_ImageLimitReached(t *testing.T) {
	led, sub, pl := gateFixtures(t, 50, 200, 200)
	auth, err := newGate(led, sub, pl).Execute(context.Background(), CheckUsageCommand{UserID: 7})
	require.NoError(t, err)

	// credits remain but the period cap denies the attempt
	assert.False(t, auth.Allowed)
	assert.Equal(t, 50, auth.CreditsRemaining)
	assert.Equal(t, "plan image limit reached for this period", auth.Reason)
}

func TestCheckUsage_FreeTierUsesCreditsOnly(t *testing.T) {
	led, err := ledger.Reconstruct(7, 3, 0, nil, 1, time.Now().UTC())
	require.NoError(t, err)

	auth, err := newGate(led, nil, nil).Execute(context.Background(), CheckUsageCommand{UserID: 7})
	require.NoError(t, err)

	assert.True(t, auth.Allowed)
	assert.Equal(t, 3, auth.CreditsRemaining)
	assert.Zero(t, auth.ImageLimit)
}

func TestCheckUsage_LapsedSubscriptionFallsBackToCredits(t *testing.T) {
	planID := uint(2)
	led, err := ledger.Reconstruct(7, 5, 0, &planID, 1, time.Now().UTC())
	require.NoError(t, err)

	now := time.Now().UTC()
	sub, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:                 11,
		SID:                "sub_gate2",
		UserID:             7,
		PlanID:             planID,
		Status:             subvo.StatusActive,
		BillingCycle:       planvo.BillingCycleMonthly,
		CurrentPeriodStart: now.AddDate(0, -1, -1),
		CurrentPeriodEnd:   now.Add(-time.Hour),
		Version:            2,
		CreatedAt:          now.AddDate(0, -1, -1),
		UpdatedAt:          now.AddDate(0, -1, -1),
	})
	require.NoError(t, err)

	auth, err := newGate(led, sub, nil).Execute(context.Background(), CheckUsageCommand{UserID: 7})
	require.NoError(t, err)

	// the lapsed period means credits alone decide, no plan cap applies
	assert.True(t, auth.Allowed)
	assert.Zero(t, auth.ImageLimit)
}

func TestCheckUsage_MissingLedger(t *testing.T) {
	uc := NewCheckUsageUseCase(&mockLedgerRepository{}, &mockSubscriptionRepository{}, &mockPlanRepository{}, mockLogger{})
	_, err := uc.Execute(context.Background(), CheckUsageCommand{UserID: 7})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGetBalance(t *testing.T) {
	planID := uint(2)
	led, err := ledger.Reconstruct(7, 42, 17, &planID, 1, time.Now().UTC())
	require.NoError(t, err)

	ledgerRepo := &mockLedgerRepository{
		GetByUserIDFunc: func(ctx context.Context, userID uint) (*ledger.Ledger, error) {
			return led, nil
		},
	}
	result, err := NewGetBalanceUseCase(ledgerRepo, mockLogger{}).Execute(context.Background(), GetBalanceCommand{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, 42, result.CreditsRemaining)
	assert.Equal(t, 17, result.ImagesGenerated)
	require.NotNil(t, result.CurrentPlanID)
	assert.Equal(t, planID, *result.CurrentPlanID)
}
