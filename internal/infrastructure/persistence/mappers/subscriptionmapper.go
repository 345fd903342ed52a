package mappers

import (
	"github.com/pixamint/pixamint/internal/domain/subscription"
	vo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                 s.ID(),
		SID:                s.SID(),
		UserID:             s.UserID(),
		PlanID:             s.PlanID(),
		Status:             s.Status().String(),
		BillingCycle:       s.BillingCycle().String(),
		CurrentPeriodStart: s.CurrentPeriodStart(),
		CurrentPeriodEnd:   s.CurrentPeriodEnd(),
		AutoRenew:          s.AutoRenew(),
		ImagesUsed:         s.ImagesUsed(),
		ScheduledPlanID:    s.ScheduledPlanID(),
		ProviderSubRef:     s.ProviderSubRef(),
		CancelledAt:        s.CancelledAt(),
		CancelReason:       s.CancelReason(),
		Version:            s.Version(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.Reconstruct(subscription.ReconstructParams{
		ID:                 model.ID,
		SID:                model.SID,
		UserID:             model.UserID,
		PlanID:             model.PlanID,
		Status:             vo.Status(model.Status),
		BillingCycle:       planvo.BillingCycle(model.BillingCycle),
		CurrentPeriodStart: model.CurrentPeriodStart,
		CurrentPeriodEnd:   model.CurrentPeriodEnd,
		AutoRenew:          model.AutoRenew,
		ImagesUsed:         model.ImagesUsed,
		ScheduledPlanID:    model.ScheduledPlanID,
		ProviderSubRef:     model.ProviderSubRef,
		CancelledAt:        model.CancelledAt,
		CancelReason:       model.CancelReason,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	})
}
