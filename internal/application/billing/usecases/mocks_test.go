package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	subUC "github.com/pixamint/pixamint/internal/application/subscription/usecases"
	"github.com/pixamint/pixamint/internal/domain/billing"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/payment"
	paymentvo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/plan"
	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/db"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type mockWebhookEventRepository struct {
	MarkProcessedFunc func(ctx context.Context, eventID, eventType string) (bool, error)
}

func (m *mockWebhookEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, eventID, eventType)
	}
	return true, nil
}

// txBoundEventRepository mimics the idempotency table under transactional
// semantics: a mark becomes durable only when the surrounding transaction
// commits, and rolls back with it otherwise.
type txBoundEventRepository struct {
	processed map[string]bool
	staged    []string
}

func newTxBoundEventRepository() *txBoundEventRepository {
	return &txBoundEventRepository{processed: map[string]bool{}}
}

func (r *txBoundEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	if r.processed[eventID] {
		return false, nil
	}
	r.staged = append(r.staged, eventID)
	return true, nil
}

// rollbackTxManager commits the event repository's staged marks when fn
// succeeds and discards them when it fails.
type rollbackTxManager struct {
	events *txBoundEventRepository
}

func (m *rollbackTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err != nil {
		m.events.staged = nil
		return err
	}
	for _, id := range m.events.staged {
		m.events.processed[id] = true
	}
	m.events.staged = nil
	return nil
}

type mockPaymentRepository struct {
	payment.Repository

	GetByProviderRefFunc func(ctx context.Context, ref string) (*payment.Payment, error)
	GetBySIDFunc         func(ctx context.Context, sid string) (*payment.Payment, error)
	UpdateFunc           func(ctx context.Context, p *payment.Payment) error
	ListByUserIDFunc     func(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error)
}

func (m *mockPaymentRepository) GetBySID(ctx context.Context, sid string) (*payment.Payment, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockPaymentRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockPaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*payment.Payment, error) {
	if m.GetByProviderRefFunc != nil {
		return m.GetByProviderRefFunc(ctx, ref)
	}
	return nil, nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

type mockSubscriptionRepository struct {
	subscription.Repository

	GetByIDFunc             func(ctx context.Context, id uint) (*subscription.Subscription, error)
	GetByProviderSubRefFunc func(ctx context.Context, ref string) (*subscription.Subscription, error)
	UpdateFunc              func(ctx context.Context, sub *subscription.Subscription) error
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByProviderSubRef(ctx context.Context, ref string) (*subscription.Subscription, error) {
	if m.GetByProviderSubRefFunc != nil {
		return m.GetByProviderSubRefFunc(ctx, ref)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

type mockLedgerRepository struct {
	ledger.Repository

	ResetForPeriodFunc  func(ctx context.Context, userID uint, allotment int, planID uint) error
	ResetToFreeTierFunc func(ctx context.Context, userID uint, freeCredits int) error
}

func (m *mockLedgerRepository) ResetForPeriod(ctx context.Context, userID uint, allotment int, planID uint) error {
	if m.ResetForPeriodFunc != nil {
		return m.ResetForPeriodFunc(ctx, userID, allotment, planID)
	}
	return nil
}

func (m *mockLedgerRepository) ResetToFreeTier(ctx context.Context, userID uint, freeCredits int) error {
	if m.ResetToFreeTierFunc != nil {
		return m.ResetToFreeTierFunc(ctx, userID, freeCredits)
	}
	return nil
}

type mockPlanRepository struct {
	plan.Repository

	GetByIDFunc func(ctx context.Context, planID uint) (*plan.Plan, error)
}

func (m *mockPlanRepository) GetByID(ctx context.Context, planID uint) (*plan.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, planID)
	}
	return nil, nil
}

type mockUserRepository struct {
	user.Repository
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	usr, err := user.NewUser("user_wh1", "alex@example.com", "Alex")
	if err != nil {
		return nil, err
	}
	if err := usr.SetID(id); err != nil {
		return nil, err
	}
	return usr, nil
}

type mockGateway struct {
	paymentgateway.Gateway

	RefundFunc func(ctx context.Context, params paymentgateway.RefundParams) (string, error)
}

func (m *mockGateway) Refund(ctx context.Context, params paymentgateway.RefundParams) (string, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, params)
	}
	return "re_mock", nil
}

type mockNotifier struct {
	Activations  int
	PaymentFails int
}

func (m *mockNotifier) SendExpiryWarning(ctx context.Context, email, name, planName string, daysLeft int) error {
	return nil
}

func (m *mockNotifier) SendSubscriptionActivated(ctx context.Context, email, name, planName string) error {
	m.Activations++
	return nil
}

func (m *mockNotifier) SendSubscriptionCancelled(ctx context.Context, email, name, planName string) error {
	return nil
}

func (m *mockNotifier) SendPaymentFailed(ctx context.Context, email, name, planName string) error {
	m.PaymentFails++
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLogger struct{}

func (mockLogger) Debug(msg string, args ...any)                   {}
func (mockLogger) Info(msg string, args ...any)                    {}
func (mockLogger) Warn(msg string, args ...any)                    {}
func (mockLogger) Error(msg string, args ...any)                   {}
func (mockLogger) Fatal(msg string, args ...any)                   {}
func (m mockLogger) With(args ...any) logger.Interface             { return m }
func (m mockLogger) Named(name string) logger.Interface            { return m }
func (mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

type reconcilerDeps struct {
	events      billing.WebhookEventRepository
	payments    *mockPaymentRepository
	subs        *mockSubscriptionRepository
	ledgers     *mockLedgerRepository
	plans       *mockPlanRepository
	notifier    *mockNotifier
	tx          db.TxManager
	freeCredits int
}

func newReconciler(t *testing.T, deps reconcilerDeps) *HandleWebhookUseCase {
	t.Helper()
	if deps.events == nil {
		deps.events = &mockWebhookEventRepository{}
	}
	if deps.payments == nil {
		deps.payments = &mockPaymentRepository{}
	}
	if deps.subs == nil {
		deps.subs = &mockSubscriptionRepository{}
	}
	if deps.ledgers == nil {
		deps.ledgers = &mockLedgerRepository{}
	}
	if deps.plans == nil {
		deps.plans = &mockPlanRepository{}
	}
	if deps.notifier == nil {
		deps.notifier = &mockNotifier{}
	}
	if deps.freeCredits == 0 {
		deps.freeCredits = 10
	}
	if deps.tx == nil {
		deps.tx = passthroughTxManager{}
	}

	userRepo := &mockUserRepository{}
	tx := deps.tx
	log := mockLogger{}

	activateUC := subUC.NewActivateSubscriptionUseCase(deps.subs, deps.plans, deps.ledgers, userRepo, tx, deps.notifier, log)
	renewUC := subUC.NewRenewSubscriptionUseCase(deps.subs, deps.plans, deps.ledgers, tx, log)
	markPastDueUC := subUC.NewMarkPastDueUseCase(deps.subs, deps.plans, userRepo, deps.notifier, log)

	return NewHandleWebhookUseCase(
		deps.events, deps.payments, deps.subs, deps.ledgers,
		activateUC, renewUC, markPastDueUC,
		tx, deps.freeCredits, log,
	)
}

func reconcilerPlan(t *testing.T) *plan.Plan {
	t.Helper()
	pl, err := plan.NewPlan("pro", "Pro", "", 1999, "USD", planvo.BillingCycleMonthly, 100, 200)
	require.NoError(t, err)
	require.NoError(t, pl.SetID(2))
	return pl
}

func pendingPayment(t *testing.T, providerRef string, subscriptionID uint) *payment.Payment {
	t.Helper()
	amount, err := paymentvo.NewMoney(1999, "USD")
	require.NoError(t, err)
	pay, err := payment.NewPayment("pay_wh1", 7, amount, payment.PurposeSubscription)
	require.NoError(t, err)
	require.NoError(t, pay.SetID(21))
	if subscriptionID != 0 {
		require.NoError(t, pay.AttachSubscription(subscriptionID))
	}
	require.NoError(t, pay.SetProviderRef(providerRef))
	return pay
}

func pendingSubscription(t *testing.T) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription("sub_wh1", 7, 2, planvo.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, sub.SetID(11))
	return sub
}

func activeSubscription(t *testing.T, providerRef string) *subscription.Subscription {
	t.Helper()
	sub := pendingSubscription(t)
	now := time.Now().UTC()
	require.NoError(t, sub.Activate(now.AddDate(0, 0, -10), now.AddDate(0, 0, 20)))
	require.NoError(t, sub.SetProviderSubRef(providerRef))
	return sub
}
