package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/domain/payment"
	paymentvo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/errors"
	"github.com/pixamint/pixamint/internal/shared/id"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID  uint
	PlanSID string
}

type CreateSubscriptionResult struct {
	Subscription *SubscriptionResult
	PaymentSID   string
	CheckoutURL  string
}

// CreateSubscriptionUseCase opens a pending_payment subscription and a
// hosted checkout. Activation happens later via the billing reconciler once
// the provider confirms the charge.
type CreateSubscriptionUseCase struct {
	subRepo     subscription.Repository
	planRepo    plan.Repository
	userRepo    user.Repository
	paymentRepo payment.Repository
	gateway     paymentgateway.Gateway
	returnURL   string
	logger      logger.Interface
}

func NewCreateSubscriptionUseCase(
	subRepo subscription.Repository,
	planRepo plan.Repository,
	userRepo user.Repository,
	paymentRepo payment.Repository,
	gateway paymentgateway.Gateway,
	returnURL string,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subRepo:     subRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		returnURL:   returnURL,
		logger:      logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	pl, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "error", err, "plan_sid", cmd.PlanSID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if pl == nil {
		return nil, errors.NewNotFoundError("plan not found")
	}
	if !pl.IsActive() {
		return nil, errors.NewConflictError("plan is no longer available")
	}
	if pl.IsFree() {
		return nil, errors.NewValidationError("free tier does not require a subscription")
	}

	usr, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if usr == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	existing, err := uc.subRepo.GetLiveByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to check existing subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("user already has a subscription in progress")
	}

	subSID, err := id.NewSubscriptionSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription sid: %w", err)
	}
	sub, err := subscription.NewSubscription(subSID, cmd.UserID, pl.ID(), pl.BillingCycle())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.subRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	paySID, err := id.NewPaymentSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment sid: %w", err)
	}
	amount, err := paymentvo.NewMoney(pl.PriceCents(), pl.Currency())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	pay, err := payment.NewPayment(paySID, cmd.UserID, amount, payment.PurposeSubscription)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := pay.AttachSubscription(sub.ID()); err != nil {
		return nil, fmt.Errorf("failed to attach subscription: %w", err)
	}

	var customerRef, priceRef string
	if usr.ProviderCustomerRef() != nil {
		customerRef = *usr.ProviderCustomerRef()
	}
	if pl.ProviderPriceID() != nil {
		priceRef = *pl.ProviderPriceID()
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, paymentgateway.CheckoutParams{
		PaymentSID:    paySID,
		CustomerEmail: usr.Email(),
		CustomerRef:   customerRef,
		PlanName:      pl.DisplayName(),
		PriceRef:      priceRef,
		AmountCents:   pl.PriceCents(),
		Currency:      pl.Currency(),
		ReturnURL:     uc.returnURL,
	})
	if err != nil {
		uc.logger.Errorw("failed to create checkout session", "error", err, "user_id", cmd.UserID)
		return nil, errors.NewPaymentFailedError("failed to start checkout")
	}

	if err := pay.SetProviderRef(session.ProviderRef); err != nil {
		return nil, fmt.Errorf("failed to set provider ref: %w", err)
	}
	if err := uc.paymentRepo.Create(ctx, pay); err != nil {
		uc.logger.Errorw("failed to create payment", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if session.CustomerRef != "" && usr.ProviderCustomerRef() == nil {
		if err := usr.SetProviderCustomerRef(session.CustomerRef); err == nil {
			if updErr := uc.userRepo.Update(ctx, usr); updErr != nil {
				uc.logger.Warnw("failed to store customer ref", "error", updErr, "user_id", cmd.UserID)
			}
		}
	}

	uc.logger.Infow("subscription checkout created",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"plan", pl.Name(),
		"amount_cents", pl.PriceCents(),
	)

	return &CreateSubscriptionResult{
		Subscription: toSubscriptionResult(sub, time.Now().UTC()),
		PaymentSID:   paySID,
		CheckoutURL:  session.CheckoutURL,
	}, nil
}
