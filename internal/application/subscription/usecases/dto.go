package usecases

import (
	"time"

	"github.com/pixamint/pixamint/internal/domain/subscription"
)

// SubscriptionResult is the application-layer view of a subscription.
type SubscriptionResult struct {
	SID                string
	PlanID             uint
	Status             string
	BillingCycle       string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	AutoRenew          bool
	ImagesUsed         int
	DaysRemaining      int
	ScheduledPlanID    *uint
	CancelledAt        *time.Time
}

func toSubscriptionResult(sub *subscription.Subscription, now time.Time) *SubscriptionResult {
	return &SubscriptionResult{
		SID:                sub.SID(),
		PlanID:             sub.PlanID(),
		Status:             sub.Status().String(),
		BillingCycle:       sub.BillingCycle().String(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		AutoRenew:          sub.AutoRenew(),
		ImagesUsed:         sub.ImagesUsed(),
		DaysRemaining:      sub.DaysRemaining(now),
		ScheduledPlanID:    sub.ScheduledPlanID(),
		CancelledAt:        sub.CancelledAt(),
	}
}
