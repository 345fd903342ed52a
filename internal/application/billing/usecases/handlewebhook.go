package usecases

import (
	"context"
	"fmt"
	"time"

	subUC "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/domain/billing"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/payment"
	paymentvo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	subvo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/biztime"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// Provider event types handled by the reconciler.
const (
	EventChargeSucceeded       = "charge.succeeded"
	EventChargeFailed          = "charge.failed"
	EventChargeRefunded        = "charge.refunded"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// HandleWebhookCommand is a signature-verified provider event. The boundary
// layer verifies the signature; this use case only reconciles state.
type HandleWebhookCommand struct {
	EventID         string
	EventType       string
	PaymentRef      string
	SubscriptionRef string
	FailureReason   string
}

// HandleWebhookUseCase maps provider events onto subscription transitions
// and payment settlements. Every handler tolerates redelivery: the event ID
// commits together with the handler's state changes, and "already in target
// state" is success.
type HandleWebhookUseCase struct {
	eventRepo       billing.WebhookEventRepository
	paymentRepo     payment.Repository
	subRepo         subscription.Repository
	ledgerRepo      ledger.Repository
	activateUC      *subUC.ActivateSubscriptionUseCase
	renewUC         *subUC.RenewSubscriptionUseCase
	markPastDueUC   *subUC.MarkPastDueUseCase
	txManager       db.TxManager
	freeTierCredits int
	logger          logger.Interface
}

func NewHandleWebhookUseCase(
	eventRepo billing.WebhookEventRepository,
	paymentRepo payment.Repository,
	subRepo subscription.Repository,
	ledgerRepo ledger.Repository,
	activateUC *subUC.ActivateSubscriptionUseCase,
	renewUC *subUC.RenewSubscriptionUseCase,
	markPastDueUC *subUC.MarkPastDueUseCase,
	txManager db.TxManager,
	freeTierCredits int,
	logger logger.Interface,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		eventRepo:       eventRepo,
		paymentRepo:     paymentRepo,
		subRepo:         subRepo,
		ledgerRepo:      ledgerRepo,
		activateUC:      activateUC,
		renewUC:         renewUC,
		markPastDueUC:   markPastDueUC,
		txManager:       txManager,
		freeTierCredits: freeTierCredits,
		logger:          logger,
	}
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, cmd HandleWebhookCommand) error {
	// The event marker and the handler's state changes commit as one unit.
	// When a handler fails, the rollback also unwinds the marker, so the
	// provider's redelivery reprocesses the event instead of hitting the
	// already-processed path with nothing applied.
	return uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		firstDelivery, err := uc.eventRepo.MarkProcessed(txCtx, cmd.EventID, cmd.EventType)
		if err != nil {
			uc.logger.Errorw("failed to record webhook event", "error", err, "event_id", cmd.EventID)
			return fmt.Errorf("failed to record webhook event: %w", err)
		}
		if !firstDelivery {
			uc.logger.Debugw("webhook event already processed", "event_id", cmd.EventID, "event_type", cmd.EventType)
			return nil
		}

		uc.logger.Infow("processing webhook event",
			"event_id", cmd.EventID,
			"event_type", cmd.EventType,
		)

		return uc.dispatch(txCtx, cmd)
	})
}

func (uc *HandleWebhookUseCase) dispatch(ctx context.Context, cmd HandleWebhookCommand) error {
	switch cmd.EventType {
	case EventChargeSucceeded:
		return uc.handleChargeSucceeded(ctx, cmd)
	case EventChargeFailed:
		return uc.handleChargeFailed(ctx, cmd)
	case EventChargeRefunded:
		return uc.handleChargeRefunded(ctx, cmd)
	case EventSubscriptionRenewed:
		return uc.handleSubscriptionRenewed(ctx, cmd)
	case EventSubscriptionCancelled:
		return uc.handleSubscriptionCancelled(ctx, cmd)
	default:
		uc.logger.Debugw("ignoring unhandled event type", "event_type", cmd.EventType)
		return nil
	}
}

func (uc *HandleWebhookUseCase) handleChargeSucceeded(ctx context.Context, cmd HandleWebhookCommand) error {
	pay, err := uc.findPayment(ctx, cmd.PaymentRef)
	if err != nil || pay == nil {
		return err
	}

	if pay.Status() != paymentvo.StatusSucceeded {
		if err := pay.MarkSucceeded(time.Now().UTC()); err != nil {
			uc.logger.Warnw("payment not in a payable state", "error", err, "payment_id", pay.ID())
			return nil
		}
		if err := uc.paymentRepo.Update(ctx, pay); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
	}

	// a first charge on a pending subscription activates it
	if pay.SubscriptionID() == nil {
		return nil
	}
	sub, err := uc.subRepo.GetByID(ctx, *pay.SubscriptionID())
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil || sub.Status() != subvo.StatusPendingPayment {
		return nil
	}

	return uc.activateUC.Execute(ctx, subUC.ActivateSubscriptionCommand{
		SubscriptionID: sub.ID(),
		ProviderSubRef: cmd.SubscriptionRef,
	})
}

func (uc *HandleWebhookUseCase) handleChargeFailed(ctx context.Context, cmd HandleWebhookCommand) error {
	pay, err := uc.findPayment(ctx, cmd.PaymentRef)
	if err != nil {
		return err
	}
	if pay != nil && pay.Status() != paymentvo.StatusFailed {
		if err := pay.MarkFailed(cmd.FailureReason); err != nil {
			uc.logger.Warnw("payment not in a failable state", "error", err, "payment_id", pay.ID())
		} else if err := uc.paymentRepo.Update(ctx, pay); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}
	}

	// a failed renewal charge suspends the subscription
	if cmd.SubscriptionRef == "" {
		return nil
	}
	sub, err := uc.subRepo.GetByProviderSubRef(ctx, cmd.SubscriptionRef)
	if err != nil {
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil || sub.Status() != subvo.StatusActive {
		return nil
	}

	return uc.markPastDueUC.Execute(ctx, subUC.MarkPastDueCommand{SubscriptionID: sub.ID()})
}

func (uc *HandleWebhookUseCase) handleChargeRefunded(ctx context.Context, cmd HandleWebhookCommand) error {
	pay, err := uc.findPayment(ctx, cmd.PaymentRef)
	if err != nil || pay == nil {
		return err
	}
	if pay.Status() == paymentvo.StatusRefunded {
		return nil
	}
	if err := pay.MarkRefunded(cmd.FailureReason, biztime.NowUTC()); err != nil {
		uc.logger.Warnw("payment not in a refundable state", "error", err, "payment_id", pay.ID())
		return nil
	}
	if err := uc.paymentRepo.Update(ctx, pay); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	uc.logger.Infow("payment refunded", "payment_id", pay.ID(), "user_id", pay.UserID())
	return nil
}

func (uc *HandleWebhookUseCase) handleSubscriptionRenewed(ctx context.Context, cmd HandleWebhookCommand) error {
	sub, err := uc.findSubscription(ctx, cmd.SubscriptionRef)
	if err != nil || sub == nil {
		return err
	}
	if !sub.Status().CanRenew() {
		uc.logger.Debugw("subscription not renewable, skipping", "subscription_id", sub.ID(), "status", sub.Status())
		return nil
	}
	return uc.renewUC.Execute(ctx, subUC.RenewSubscriptionCommand{SubscriptionID: sub.ID()})
}

func (uc *HandleWebhookUseCase) handleSubscriptionCancelled(ctx context.Context, cmd HandleWebhookCommand) error {
	sub, err := uc.findSubscription(ctx, cmd.SubscriptionRef)
	if err != nil || sub == nil {
		return err
	}
	if sub.Status() == subvo.StatusCancelled {
		return nil
	}

	// mirror the upstream cancellation locally, immediately; the ambient
	// transaction from Execute covers both writes
	if err := sub.Cancel("cancelled by payment provider", true); err != nil {
		uc.logger.Warnw("subscription not cancellable, skipping", "error", err, "subscription_id", sub.ID())
		return nil
	}
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return uc.ledgerRepo.ResetToFreeTier(ctx, sub.UserID(), uc.freeTierCredits)
}

func (uc *HandleWebhookUseCase) findPayment(ctx context.Context, ref string) (*payment.Payment, error) {
	if ref == "" {
		return nil, nil
	}
	pay, err := uc.paymentRepo.GetByProviderRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if pay == nil {
		uc.logger.Warnw("webhook references unknown payment", "provider_ref", ref)
	}
	return pay, nil
}

func (uc *HandleWebhookUseCase) findSubscription(ctx context.Context, ref string) (*subscription.Subscription, error) {
	if ref == "" {
		return nil, nil
	}
	sub, err := uc.subRepo.GetByProviderSubRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		uc.logger.Warnw("webhook references unknown subscription", "provider_ref", ref)
	}
	return sub, nil
}
