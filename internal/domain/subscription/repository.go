package subscription

import (
	"context"
	"time"
)

// Repository defines the persistence contract for subscriptions.
// Read methods return (nil, nil) when no matching subscription exists.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	GetByProviderSubRef(ctx context.Context, ref string) (*Subscription, error)

	// GetLiveByUserID returns the user's subscription that is not cancelled
	// or expired, enforcing the one-live-subscription rule.
	GetLiveByUserID(ctx context.Context, userID uint) (*Subscription, error)

	// GetLatestByUserID returns the most recently created subscription for
	// the user regardless of status.
	GetLatestByUserID(ctx context.Context, userID uint) (*Subscription, error)

	Update(ctx context.Context, sub *Subscription) error

	// FindExpiring returns active subscriptions whose period ends within the
	// window [now, now+days) and which will not auto-renew.
	FindExpiring(ctx context.Context, now time.Time, days int) ([]*Subscription, error)

	// FindLapsed returns active or past_due subscriptions whose period end
	// has passed.
	FindLapsed(ctx context.Context, now time.Time) ([]*Subscription, error)

	// FindStalePendingPayment returns pending_payment subscriptions created
	// before the cutoff, for abandoned-checkout expiry.
	FindStalePendingPayment(ctx context.Context, cutoff time.Time) ([]*Subscription, error)

	// FindActiveForUsageReset returns active subscriptions with nonzero
	// usage counters.
	FindActiveForUsageReset(ctx context.Context) ([]*Subscription, error)

	List(ctx context.Context, filter Filter) ([]*Subscription, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// Filter narrows subscription listings.
type Filter struct {
	UserID   *uint
	PlanID   *uint
	Status   *string
	Page     int
	PageSize int
}
