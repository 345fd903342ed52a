package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/application/billing/paymentgateway"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/payment"
	"github.com/pixamint/pixamint/internal/domain/plan"
	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/domain/user"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

func testPlan(t *testing.T, planID uint, name string, priceCents int64) *plan.Plan {
	t.Helper()
	pl, err := plan.NewPlan(name, name, "", priceCents, "USD", planvo.BillingCycleMonthly, 100, 200)
	require.NoError(t, err)
	require.NoError(t, pl.SetID(planID))
	return pl
}

func testUser(t *testing.T, userID uint) *user.User {
	t.Helper()
	usr, err := user.NewUser("user_test1", "alex@example.com", "Alex")
	require.NoError(t, err)
	require.NoError(t, usr.SetID(userID))
	return usr
}

func testPendingSub(t *testing.T, subID, userID, planID uint) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription("sub_test1", userID, planID, planvo.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, sub.SetID(subID))
	return sub
}

func testActiveSub(t *testing.T, subID, userID, planID uint, periodEnd time.Time) *subscription.Subscription {
	t.Helper()
	sub := testPendingSub(t, subID, userID, planID)
	require.NoError(t, sub.Activate(periodEnd.AddDate(0, -1, 0), periodEnd))
	return sub
}

type mockSubscriptionRepository struct {
	CreateFunc                  func(ctx context.Context, sub *subscription.Subscription) error
	GetByIDFunc                 func(ctx context.Context, id uint) (*subscription.Subscription, error)
	GetBySIDFunc                func(ctx context.Context, sid string) (*subscription.Subscription, error)
	GetByProviderSubRefFunc     func(ctx context.Context, ref string) (*subscription.Subscription, error)
	GetLiveByUserIDFunc         func(ctx context.Context, userID uint) (*subscription.Subscription, error)
	GetLatestByUserIDFunc       func(ctx context.Context, userID uint) (*subscription.Subscription, error)
	UpdateFunc                  func(ctx context.Context, sub *subscription.Subscription) error
	FindExpiringFunc            func(ctx context.Context, now time.Time, days int) ([]*subscription.Subscription, error)
	FindLapsedFunc              func(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	FindStalePendingPaymentFunc func(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error)
	FindActiveForUsageResetFunc func(ctx context.Context) ([]*subscription.Subscription, error)
	ListFunc                    func(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error)
	CountByStatusFunc           func(ctx context.Context, status string) (int64, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sub)
	}
	return sub.SetID(1)
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetByProviderSubRef(ctx context.Context, ref string) (*subscription.Subscription, error) {
	if m.GetByProviderSubRefFunc != nil {
		return m.GetByProviderSubRefFunc(ctx, ref)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetLiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	if m.GetLiveByUserIDFunc != nil {
		return m.GetLiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetLatestByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	if m.GetLatestByUserIDFunc != nil {
		return m.GetLatestByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) FindExpiring(ctx context.Context, now time.Time, days int) ([]*subscription.Subscription, error) {
	if m.FindExpiringFunc != nil {
		return m.FindExpiringFunc(ctx, now, days)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindLapsed(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	if m.FindLapsedFunc != nil {
		return m.FindLapsedFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindStalePendingPayment(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	if m.FindStalePendingPaymentFunc != nil {
		return m.FindStalePendingPaymentFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindActiveForUsageReset(ctx context.Context) ([]*subscription.Subscription, error) {
	if m.FindActiveForUsageResetFunc != nil {
		return m.FindActiveForUsageResetFunc(ctx)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) List(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockSubscriptionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

type mockPlanRepository struct {
	CreateFunc     func(ctx context.Context, pl *plan.Plan) error
	GetByIDFunc    func(ctx context.Context, id uint) (*plan.Plan, error)
	GetBySIDFunc   func(ctx context.Context, sid string) (*plan.Plan, error)
	GetByNameFunc  func(ctx context.Context, name string) (*plan.Plan, error)
	UpdateFunc     func(ctx context.Context, pl *plan.Plan) error
	ListActiveFunc func(ctx context.Context) ([]*plan.Plan, error)
	ListAllFunc    func(ctx context.Context) ([]*plan.Plan, error)
}

func (m *mockPlanRepository) Create(ctx context.Context, pl *plan.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pl)
	}
	return pl.SetID(1)
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*plan.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetBySID(ctx context.Context, sid string) (*plan.Plan, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockPlanRepository) Update(ctx context.Context, pl *plan.Plan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, pl)
	}
	return nil
}

func (m *mockPlanRepository) ListActive(ctx context.Context) ([]*plan.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockPlanRepository) ListAll(ctx context.Context) ([]*plan.Plan, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type mockLedgerRepository struct {
	CreateFunc                   func(ctx context.Context, l *ledger.Ledger) error
	GetByUserIDFunc              func(ctx context.Context, userID uint) (*ledger.Ledger, error)
	UpdateFunc                   func(ctx context.Context, l *ledger.Ledger) error
	ReserveCreditsFunc           func(ctx context.Context, userID uint, amount int) (bool, error)
	RefundCreditsFunc            func(ctx context.Context, userID uint, amount int) error
	IncrementImagesGeneratedFunc func(ctx context.Context, userID uint) error
	ResetForPeriodFunc           func(ctx context.Context, userID uint, allotment int, planID uint) error
	ResetToFreeTierFunc          func(ctx context.Context, userID uint, freeCredits int) error
}

func (m *mockLedgerRepository) Create(ctx context.Context, l *ledger.Ledger) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, l)
	}
	return nil
}

func (m *mockLedgerRepository) GetByUserID(ctx context.Context, userID uint) (*ledger.Ledger, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockLedgerRepository) Update(ctx context.Context, l *ledger.Ledger) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, l)
	}
	return nil
}

func (m *mockLedgerRepository) ReserveCredits(ctx context.Context, userID uint, amount int) (bool, error) {
	if m.ReserveCreditsFunc != nil {
		return m.ReserveCreditsFunc(ctx, userID, amount)
	}
	return true, nil
}

func (m *mockLedgerRepository) RefundCredits(ctx context.Context, userID uint, amount int) error {
	if m.RefundCreditsFunc != nil {
		return m.RefundCreditsFunc(ctx, userID, amount)
	}
	return nil
}

func (m *mockLedgerRepository) IncrementImagesGenerated(ctx context.Context, userID uint) error {
	if m.IncrementImagesGeneratedFunc != nil {
		return m.IncrementImagesGeneratedFunc(ctx, userID)
	}
	return nil
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

type mockUserRepository struct {
	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByIDFunc    func(ctx context.Context, id uint) (*user.User, error)
	GetBySIDFunc   func(ctx context.Context, sid string) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	UpdateFunc     func(ctx context.Context, u *user.User) error
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

type mockPaymentRepository struct {
	CreateFunc               func(ctx context.Context, p *payment.Payment) error
	GetByIDFunc              func(ctx context.Context, id uint) (*payment.Payment, error)
	GetBySIDFunc             func(ctx context.Context, sid string) (*payment.Payment, error)
	GetByProviderRefFunc     func(ctx context.Context, ref string) (*payment.Payment, error)
	UpdateFunc               func(ctx context.Context, p *payment.Payment) error
	ListByUserIDFunc         func(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error)
	ListBySubscriptionIDFunc func(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error)
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return p.SetID(1)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepository) GetBySID(ctx context.Context, sid string) (*payment.Payment, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
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

func (m *mockPaymentRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*payment.Payment, int64, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockPaymentRepository) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	if m.ListBySubscriptionIDFunc != nil {
		return m.ListBySubscriptionIDFunc(ctx, subscriptionID)
	}
	return nil, nil
}

type mockGateway struct {
	CreateCheckoutSessionFunc func(ctx context.Context, params paymentgateway.CheckoutParams) (*paymentgateway.CheckoutSession, error)
	ChargeFunc                func(ctx context.Context, params paymentgateway.ChargeParams) (*paymentgateway.ChargeResult, error)
	RefundFunc                func(ctx context.Context, params paymentgateway.RefundParams) (string, error)
	CancelSubscriptionFunc    func(ctx context.Context, providerSubRef string) error
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, params paymentgateway.CheckoutParams) (*paymentgateway.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, params)
	}
	return &paymentgateway.CheckoutSession{
		ProviderRef: "ch_mock",
		CheckoutURL: "https://pay.example.com/ch_mock",
		CustomerRef: "cus_mock",
	}, nil
}

func (m *mockGateway) Charge(ctx context.Context, params paymentgateway.ChargeParams) (*paymentgateway.ChargeResult, error) {
	if m.ChargeFunc != nil {
		return m.ChargeFunc(ctx, params)
	}
	return &paymentgateway.ChargeResult{ProviderRef: "ch_mock", Succeeded: true}, nil
}

func (m *mockGateway) Refund(ctx context.Context, params paymentgateway.RefundParams) (string, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, params)
	}
	return "re_mock", nil
}

func (m *mockGateway) CancelSubscription(ctx context.Context, providerSubRef string) error {
	if m.CancelSubscriptionFunc != nil {
		return m.CancelSubscriptionFunc(ctx, providerSubRef)
	}
	return nil
}

type mockNotifier struct {
	ExpiryWarnings int
	Activations    int
	Cancellations  int
	PaymentFails   int
}

func (m *mockNotifier) SendExpiryWarning(ctx context.Context, email, name, planName string, daysLeft int) error {
	m.ExpiryWarnings++
	return nil
}

func (m *mockNotifier) SendSubscriptionActivated(ctx context.Context, email, name, planName string) error {
	m.Activations++
	return nil
}

func (m *mockNotifier) SendSubscriptionCancelled(ctx context.Context, email, name, planName string) error {
	m.Cancellations++
	return nil
}

func (m *mockNotifier) SendPaymentFailed(ctx context.Context, email, name, planName string) error {
	m.PaymentFails++
	return nil
}

type mockPlanCache struct {
	Plans       []*PlanResult
	SetCalls    int
	Invalidated int
}

func (m *mockPlanCache) GetActivePlans(ctx context.Context) ([]*PlanResult, error) {
	return m.Plans, nil
}

func (m *mockPlanCache) SetActivePlans(ctx context.Context, plans []*PlanResult) error {
	m.Plans = plans
	m.SetCalls++
	return nil
}

func (m *mockPlanCache) Invalidate(ctx context.Context) error {
	m.Plans = nil
	m.Invalidated++
	return nil
}

// passthroughTxManager runs the function directly; the unit under test is
// the orchestration, not transactionality.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockLogger struct{}

func (mockLogger) Debug(msg string, args ...any)                    {}
func (mockLogger) Info(msg string, args ...any)                     {}
func (mockLogger) Warn(msg string, args ...any)                     {}
func (mockLogger) Error(msg string, args ...any)                    {}
func (mockLogger) Fatal(msg string, args ...any)                    {}
func (m mockLogger) With(args ...any) logger.Interface              { return m }
func (m mockLogger) Named(name string) logger.Interface             { return m }
func (mockLogger) Debugw(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Infow(msg string, keysAndValues ...interface{})   {}
func (mockLogger) Warnw(msg string, keysAndValues ...interface{})   {}
func (mockLogger) Errorw(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Fatalw(msg string, keysAndValues ...interface{})  {}
