package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/application/generation/services"
	usageUC "github.com/pixamint/pixamint/internal/application/usage/usecases"
	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/plan"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type mockGenerationRepository struct {
	generation.Repository

	CreateFunc              func(ctx context.Context, g *generation.Generation) error
	GetByIDFunc             func(ctx context.Context, id uint) (*generation.Generation, error)
	GetBySIDFunc            func(ctx context.Context, sid string) (*generation.Generation, error)
	UpdateFunc              func(ctx context.Context, g *generation.Generation) error
	DeleteFunc              func(ctx context.Context, id uint) error
	ListByUserIDFunc        func(ctx context.Context, userID uint, page, pageSize int) ([]*generation.Generation, int64, error)
	ListPublicFunc          func(ctx context.Context, page, pageSize int) ([]*generation.Generation, int64, error)
	FindStuckProcessingFunc func(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error)
	FindFailedBeforeFunc    func(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error)
}

func (m *mockGenerationRepository) Create(ctx context.Context, g *generation.Generation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, g)
	}
	return g.SetID(1)
}

func (m *mockGenerationRepository) GetByID(ctx context.Context, id uint) (*generation.Generation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockGenerationRepository) GetBySID(ctx context.Context, sid string) (*generation.Generation, error) {
	if m.GetBySIDFunc != nil {
		return m.GetBySIDFunc(ctx, sid)
	}
	return nil, nil
}

func (m *mockGenerationRepository) Update(ctx context.Context, g *generation.Generation) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, g)
	}
	return nil
}

func (m *mockGenerationRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockGenerationRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*generation.Generation, int64, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockGenerationRepository) ListPublic(ctx context.Context, page, pageSize int) ([]*generation.Generation, int64, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockGenerationRepository) FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
	if m.FindStuckProcessingFunc != nil {
		return m.FindStuckProcessingFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockGenerationRepository) FindFailedBefore(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
	if m.FindFailedBeforeFunc != nil {
		return m.FindFailedBeforeFunc(ctx, cutoff)
	}
	return nil, nil
}

type mockLedgerRepository struct {
	ledger.Repository

	GetByUserIDFunc    func(ctx context.Context, userID uint) (*ledger.Ledger, error)
	ReserveCreditsFunc func(ctx context.Context, userID uint, amount int) (bool, error)
	RefundCreditsFunc  func(ctx context.Context, userID uint, amount int) error
}

func (m *mockLedgerRepository) GetByUserID(ctx context.Context, userID uint) (*ledger.Ledger, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
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

type mockSubscriptionRepository struct {
	subscription.Repository
}

func (m *mockSubscriptionRepository) GetLiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	return nil, nil
}

type mockPlanRepository struct {
	plan.Repository
}

type mockAssetStore struct {
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *mockAssetStore) StoreFromURL(ctx context.Context, sourceURL, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

type mockSynthesizer struct{}

func (mockSynthesizer) Generate(ctx context.Context, req services.SynthesisRequest) (*services.SynthesisResult, error) {
	return &services.SynthesisResult{ImageURL: "https://tmp.example.com/img.png"}, nil
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

// fundedLedger returns a free-tier ledger holding the given balance.
func fundedLedger(t *testing.T, credits int) *ledger.Ledger {
	t.Helper()
	led, err := ledger.Reconstruct(7, credits, 0, nil, 1, time.Now().UTC())
	require.NoError(t, err)
	return led
}

// idleWorkflow returns a workflow whose queue buffers without workers, so
// enqueued IDs are observable and never processed.
func idleWorkflow(queueSize int) *services.Workflow {
	return services.NewWorkflow(
		&mockGenerationRepository{}, &mockLedgerRepository{}, &mockSubscriptionRepository{},
		mockSynthesizer{}, &mockAssetStore{}, passthroughTxManager{},
		services.WorkflowConfig{WorkerCount: 1, QueueSize: queueSize}, mockLogger{},
	)
}

func newGeneration(t *testing.T, id uint, userID uint) *generation.Generation {
	t.Helper()
	gen, err := generation.NewGeneration("gen_fix1", userID, "a quiet harbor", "flux-dev", "1024x1024", 1)
	require.NoError(t, err)
	require.NoError(t, gen.SetID(id))
	return gen
}

func failedGeneration(t *testing.T, id uint, userID uint) *generation.Generation {
	t.Helper()
	gen := newGeneration(t, id, userID)
	require.NoError(t, gen.Start())
	require.NoError(t, gen.Fail("synthesis failed"))
	return gen
}

func completedGeneration(t *testing.T, id uint, userID uint) *generation.Generation {
	t.Helper()
	gen := newGeneration(t, id, userID)
	require.NoError(t, gen.Start())
	require.NoError(t, gen.Complete("https://cdn.example.com/gen_fix1.png"))
	return gen
}

func usageGate(led *ledger.Ledger) *usageUC.CheckUsageUseCase {
	ledgerRepo := &mockLedgerRepository{
		GetByUserIDFunc: func(ctx context.Context, userID uint) (*ledger.Ledger, error) {
			return led, nil
		},
	}
	return usageUC.NewCheckUsageUseCase(ledgerRepo, &mockSubscriptionRepository{}, &mockPlanRepository{}, mockLogger{})
}
