package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/payment"
	paymentvo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/id"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ChangePlanCommand struct {
	UserID     uint
	SID        string
	NewPlanSID string
	Immediate  bool
}

type ChangePlanResult struct {
	Subscription  *SubscriptionResult
	ProratedCents int64
	Scheduled     bool
}

// ChangePlanUseCase switches plans. An immediate upgrade charges the
// prorated difference synchronously and swaps the plan in one transaction;
// a charge failure aborts the change entirely. Downgrades and non-immediate
// changes are scheduled for the next renewal.
type ChangePlanUseCase struct {
	subRepo     subscription.Repository
	planRepo    plan.Repository
	ledgerRepo  ledger.Repository
	userRepo    user.Repository
	paymentRepo payment.Repository
	gateway     paymentgateway.Gateway
	txManager   db.TxManager
	logger      logger.Interface
}

func NewChangePlanUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	ledgerRepo ledger.Repository,
	userRepo user.Repository,
	paymentRepo payment.Repository,
	gateway paymentgateway.Gateway,
	txManager db.TxManager,
	logger logger.Interface,
) *ChangePlanUseCase {
	return &ChangePlanUseCase{
		subRepo:     subRepo,
		planRepo:    planRepo,
		ledgerRepo:  ledgerRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		txManager:   txManager,
		logger:      logger,
	}
}

func (uc *ChangePlanUseCase) Execute(ctx context.Context, cmd ChangePlanCommand) (*ChangePlanResult, error) {
	sub, err := uc.subRepo.GetBySID(ctx, cmd.SID)
	if err != nil {
		uc.logger.Errorw("failed to get subscription", "error", err, "sid", cmd.SID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	if sub.UserID() != cmd.UserID {
		return nil, errors.NewForbiddenError("subscription belongs to another user")
	}

	newPlan, err := uc.planRepo.GetBySID(ctx, cmd.NewPlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.NewPlanSID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if newPlan == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}
	if !newPlan.IsActive() {
		return nil, errors.NewConflictError("plan is no longer available")
	}
	if newPlan.ID() == sub.PlanID() {
		return nil, errors.NewValidationError("already on this plan")
	}

	oldPlan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get current plan: %w", err)
	}
	if oldPlan == nil {
		return nil, errors.NewNotFoundError("current plan not found")
	}

	now := time.Now().UTC()
	isUpgrade := newPlan.PriceCents() > oldPlan.PriceCents()

	if !cmd.Immediate || !isUpgrade {
		return uc.schedule(ctx, sub, newPlan)
	}

	prorated := subscription.ProrateUpgrade(
		oldPlan.PriceCents(), newPlan.PriceCents(),
		sub.BillingCycle(), now, sub.CurrentPeriodEnd(),
	)

	if prorated > 0 {
		if err := uc.chargeProration(ctx, sub, newPlan, prorated); err != nil {
			return nil, err
		}
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.ChangePlan(newPlan.ID(), newPlan.BillingCycle()); err != nil {
			return errors.NewInvalidTransitionError(err.Error())
		}
		sub.ResetUsage()
		if err := uc.subRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if err := uc.ledgerRepo.ResetForPeriod(txCtx, sub.UserID(), newPlan.CreditAllotment(), newPlan.ID()); err != nil {
			return fmt.Errorf("failed to reset ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to apply plan change", "error", err, "sid", cmd.SID)
		return nil, err
	}

	uc.logger.Infow("plan upgraded",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"old_plan", oldPlan.Name(),
		"new_plan", newPlan.Name(),
		"prorated_cents", prorated,
	)

	return &ChangePlanResult{
		Subscription:  toSubscriptionResult(sub, now),
		ProratedCents: prorated,
	}, nil
}

func (uc *ChangePlanUseCase) schedule(ctx context.Context, sub *subscription.Subscription, newPlan *plan.Plan) (*ChangePlanResult, error) {
	if err := sub.SchedulePlanChange(newPlan.ID()); err != nil {
		return nil, errors.NewInvalidTransitionError(err.Error())
	}
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to schedule plan change", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to schedule plan change: %w", err)
	}

	uc.logger.Infow("plan change scheduled",
		"subscription_id", sub.ID(),
		"user_id", sub.UserID(),
		"new_plan", newPlan.Name(),
	)

	return &ChangePlanResult{
		Subscription: toSubscriptionResult(sub, time.Now().UTC()),
		Scheduled:    true,
	}, nil
}

func (uc *ChangePlanUseCase) chargeProration(ctx context.Context, sub *subscription.Subscription, newPlan *plan.Plan, prorated int64) error {
	usr, err := uc.userRepo.GetByID(ctx, sub.UserID())
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if usr == nil || usr.ProviderCustomerRef() == nil {
		return errors.NewPaymentFailedError("no payment method on file")
	}

	paySID, err := id.NewPaymentSID()
	if err != nil {
		return fmt.Errorf("failed to generate payment sid: %w", err)
	}
	amount, err := paymentvo.NewMoney(prorated, newPlan.Currency())
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	pay, err := payment.NewPayment(paySID, sub.UserID(), amount, payment.PurposePlanChange)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := pay.AttachSubscription(sub.ID()); err != nil {
		return err
	}

	result, err := uc.gateway.Charge(ctx, paymentgateway.ChargeParams{
		PaymentSID:  paySID,
		CustomerRef: *usr.ProviderCustomerRef(),
		AmountCents: prorated,
		Currency:    newPlan.Currency(),
		Description: fmt.Sprintf("Prorated upgrade to %s", newPlan.DisplayName()),
	})
	if err != nil {
		uc.logger.Errorw("proration charge errored", "error", err, "subscription_id", sub.ID())
		return errors.NewPaymentFailedError("proration charge failed")
	}

	if result.ProviderRef != "" {
		if err := pay.SetProviderRef(result.ProviderRef); err != nil {
			return err
		}
	}

	if !result.Succeeded {
		if err := pay.MarkFailed(result.FailureReason); err == nil {
			if createErr := uc.paymentRepo.Create(ctx, pay); createErr != nil {
				uc.logger.Errorw("failed to record failed payment", "error", createErr, "payment_sid", paySID)
			}
		}
		return errors.NewPaymentFailedError("proration charge was declined")
	}

	if err := pay.MarkSucceeded(time.Now().UTC()); err != nil {
		return err
	}
	if err := uc.paymentRepo.Create(ctx, pay); err != nil {
		uc.logger.Errorw("failed to record payment", "error", err, "payment_sid", paySID)
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}
