package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/subscription"
	subvo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func TestExpireSubscriptions_LapsedAreExpired(t *testing.T) {
	now := time.Now().UTC()
	lapsed := testActiveSub(t, 11, 7, 2, now.Add(-time.Hour))
	stillCurrent := testActiveSub(t, 12, 8, 2, now.AddDate(0, 0, 5))

	var resetUsers []uint
	subRepo := &mockSubscriptionRepository{
		FindLapsedFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			// the second row simulates a renewal that landed between the
			// query and the sweep
			return []*subscription.Subscription{lapsed, stillCurrent}, nil
		},
	}
	ledgerRepo := &mockLedgerRepository{
		ResetToFreeTierFunc: func(ctx context.Context, userID uint, freeCredits int) error {
			resetUsers = append(resetUsers, userID)
			return nil
		},
	}

	uc := NewExpireSubscriptionsUseCase(subRepo, ledgerRepo, passthroughTxManager{}, 10, mockLogger{})
	result, err := uc.Execute(context.Background(), ExpireSubscriptionsCommand{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, subvo.StatusExpired, lapsed.Status())
	assert.Equal(t, subvo.StatusActive, stillCurrent.Status())
	assert.Equal(t, []uint{7}, resetUsers)
}

func TestExpireSubscriptions_ConcurrentRenewalLeavesSubscriptionAlone(t *testing.T) {
	now := time.Now().UTC()
	lapsed := testActiveSub(t, 11, 7, 2, now.Add(-time.Hour))

	subRepo := &mockSubscriptionRepository{
		FindLapsedFunc: func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
			return []*subscription.Subscription{lapsed}, nil
		},
		UpdateFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			// a renewal committed between the sweep query and this write
			// bumped the row version
			return errors.NewConflictError("subscription was modified concurrently")
		},
	}
	ledgerTouched := false
	ledgerRepo := &mockLedgerRepository{
		ResetToFreeTierFunc: func(ctx context.Context, userID uint, freeCredits int) error {
			ledgerTouched = true
			return nil
		},
	}

	uc := NewExpireSubscriptionsUseCase(subRepo, ledgerRepo, passthroughTxManager{}, 10, mockLogger{})
	result, err := uc.Execute(context.Background(), ExpireSubscriptionsCommand{})
	require.NoError(t, err)

	assert.Zero(t, result.Expired)
	assert.False(t, ledgerTouched, "a renewed subscription must keep its ledger")
}

func TestExpireSubscriptions_AbandonedCheckoutsSweptWithoutLedgerTouch(t *testing.T) {
	stale := testPendingSub(t, 13, 9, 2)

	ledgerTouched := false
	subRepo := &mockSubscriptionRepository{
		FindStalePendingPaymentFunc: func(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
			return []*subscription.Subscription{stale}, nil
		},
	}
	ledgerRepo := &mockLedgerRepository{
		ResetToFreeTierFunc: func(ctx context.Context, userID uint, freeCredits int) error {
			ledgerTouched = true
			return nil
		},
	}

	uc := NewExpireSubscriptionsUseCase(subRepo, ledgerRepo, passthroughTxManager{}, 10, mockLogger{})
	result, err := uc.Execute(context.Background(), ExpireSubscriptionsCommand{PendingPaymentMaxAge: time.Hour})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AbandonedSwept)
	assert.Equal(t, subvo.StatusExpired, stale.Status())
	assert.False(t, ledgerTouched)
}

func TestResetUsage_ZeroesActiveCounters(t *testing.T) {
	now := time.Now().UTC()
	first := testActiveSub(t, 11, 7, 2, now.AddDate(0, 0, 20))
	second := testActiveSub(t, 12, 8, 2, now.AddDate(0, 0, 20))
	first.RecordImageUse()
	first.RecordImageUse()
	second.RecordImageUse()

	updates := 0
	subRepo := &mockSubscriptionRepository{
		FindActiveForUsageResetFunc: func(ctx context.Context) ([]*subscription.Subscription, error) {
			return []*subscription.Subscription{first, second}, nil
		},
		UpdateFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			updates++
			return nil
		},
	}

	uc := NewResetUsageUseCase(subRepo, mockLogger{})
	reset, err := uc.Execute(context.Background(), ResetUsageCommand{})
	require.NoError(t, err)

	assert.Equal(t, 2, reset)
	assert.Equal(t, 2, updates)
	assert.Zero(t, first.ImagesUsed())
	assert.Zero(t, second.ImagesUsed())
}

func TestWarnExpiring_OnlyMatchingHorizons(t *testing.T) {
	now := time.Now().UTC()
	threeDays := testActiveSub(t, 11, 7, 2, now.Add(3*24*time.Hour+30*time.Minute))
	twoDays := testActiveSub(t, 12, 8, 2, now.Add(2*24*time.Hour+30*time.Minute))
	threeDays.SetAutoRenew(false)
	twoDays.SetAutoRenew(false)

	subRepo := &mockSubscriptionRepository{
		FindExpiringFunc: func(ctx context.Context, now time.Time, days int) ([]*subscription.Subscription, error) {
			assert.Equal(t, 3, days)
			return []*subscription.Subscription{threeDays, twoDays}, nil
		},
	}
	notifier := &mockNotifier{}

	userRepo := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*user.User, error) {
			return testUser(t, id), nil
		},
	}

	uc := NewWarnExpiringUseCase(subRepo, &mockPlanRepository{}, userRepo, notifier, mockLogger{})
	warned, err := uc.Execute(context.Background(), WarnExpiringCommand{DaysAhead: []int{3, 1}})
	require.NoError(t, err)

	// two days out matches neither the 3-day nor the 1-day horizon
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, notifier.ExpiryWarnings)
}
