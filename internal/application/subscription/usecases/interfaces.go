package usecases

import "context"

// PlanCache fronts the plan listing, which is read on every pricing page
// hit but changes only on admin action. A cache miss or error falls through
// to the repository.
type PlanCache interface {
	GetActivePlans(ctx context.Context) ([]*PlanResult, error)
	SetActivePlans(ctx context.Context, plans []*PlanResult) error
	Invalidate(ctx context.Context) error
}

// Notifier delivers lifecycle emails. Failures are logged, never propagated;
// mail must not block or fail a state transition.
type Notifier interface {
	SendExpiryWarning(ctx context.Context, email, name, planName string, daysLeft int) error
	SendSubscriptionActivated(ctx context.Context, email, name, planName string) error
	SendSubscriptionCancelled(ctx context.Context, email, name, planName string) error
	SendPaymentFailed(ctx context.Context, email, name, planName string) error
}
