package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func TestListPlans_CacheAside(t *testing.T) {
	basic := testPlan(t, 2, "basic", 1000)
	pro := testPlan(t, 3, "pro", 3000)

	repoCalls := 0
	planRepo := &mockPlanRepository{
		ListActiveFunc: func(ctx context.Context) ([]*plan.Plan, error) {
			repoCalls++
			return []*plan.Plan{basic, pro}, nil
		},
	}
	cache := &mockPlanCache{}

	uc := NewListPlansUseCase(planRepo, cache, mockLogger{})

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "basic", first[0].Name)
	assert.Equal(t, 1, repoCalls)
	assert.Equal(t, 1, cache.SetCalls)

	// second call is served from the cache
	second, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, repoCalls)
}

func TestCreatePlan_NameConflict(t *testing.T) {
	existing := testPlan(t, 2, "pro", 3000)
	planRepo := &mockPlanRepository{
		GetByNameFunc: func(ctx context.Context, name string) (*plan.Plan, error) {
			return existing, nil
		},
	}
	uc := NewCreatePlanUseCase(planRepo, &mockPlanCache{}, mockLogger{})
	_, err := uc.Execute(context.Background(), CreatePlanCommand{
		Name: "pro", DisplayName: "Pro", Currency: "USD", BillingCycle: "monthly",
		PriceCents: 3000, CreditAllotment: 100, ImageLimit: 200,
	})
	assert.True(t, errors.IsConflictError(err))
}

func TestCreatePlan_InvalidatesCache(t *testing.T) {
	planRepo := &mockPlanRepository{}
	cache := &mockPlanCache{}
	uc := NewCreatePlanUseCase(planRepo, cache, mockLogger{})

	result, err := uc.Execute(context.Background(), CreatePlanCommand{
		Name: "studio", DisplayName: "Studio", Currency: "USD", BillingCycle: "yearly",
		PriceCents: 29900, CreditAllotment: 2000, ImageLimit: 5000,
		Features: []string{"priority queue"}, Priority: 3, ProviderPriceID: "price_studio",
	})
	require.NoError(t, err)

	assert.Equal(t, "studio", result.Name)
	assert.Equal(t, "yearly", result.BillingCycle)
	assert.Equal(t, 1, cache.Invalidated)
}

func TestDeactivatePlan(t *testing.T) {
	pl := testPlan(t, 2, "legacy", 1000)
	planRepo := &mockPlanRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*plan.Plan, error) { return pl, nil },
	}
	cache := &mockPlanCache{}

	uc := NewDeactivatePlanUseCase(planRepo, cache, mockLogger{})
	err := uc.Execute(context.Background(), DeactivatePlanCommand{SID: pl.SID()})
	require.NoError(t, err)

	assert.False(t, pl.IsActive())
	assert.Equal(t, 1, cache.Invalidated)
}

func TestGetSubscription_FallsBackToLatest(t *testing.T) {
	expired := testActiveSub(t, 11, 7, 2, time.Now().UTC().AddDate(0, 0, 5))
	require.NoError(t, expired.MarkExpired())

	subRepo := &mockSubscriptionRepository{
		GetLatestByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return expired, nil
		},
	}
	uc := NewGetSubscriptionUseCase(subRepo, mockLogger{})
	result, err := uc.Execute(context.Background(), GetSubscriptionCommand{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "expired", result.Status)
}

func TestGetSubscription_NoneFound(t *testing.T) {
	uc := NewGetSubscriptionUseCase(&mockSubscriptionRepository{}, mockLogger{})
	_, err := uc.Execute(context.Background(), GetSubscriptionCommand{UserID: 7})
	assert.True(t, errors.IsNotFoundError(err))
}
