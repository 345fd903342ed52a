package services

import (
	"context"
	"sync"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/domain/subscription"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

// mockGenerationRepository is a thread-safe in-memory store; workers mutate
// records concurrently with test assertions.
type mockGenerationRepository struct {
	generation.Repository

	mu      sync.Mutex
	records map[uint]*generation.Generation
}

func newMockGenerationRepository() *mockGenerationRepository {
	return &mockGenerationRepository{records: map[uint]*generation.Generation{}}
}

func (m *mockGenerationRepository) put(g *generation.Generation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[g.ID()] = g
}

func (m *mockGenerationRepository) GetByID(ctx context.Context, id uint) (*generation.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func (m *mockGenerationRepository) Update(ctx context.Context, g *generation.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[g.ID()] = g
	return nil
}

type mockLedgerRepository struct {
	ledger.Repository

	mu         sync.Mutex
	increments []uint
	refunds    []int
}

func (m *mockLedgerRepository) IncrementImagesGenerated(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.increments = append(m.increments, userID)
	return nil
}

func (m *mockLedgerRepository) RefundCredits(ctx context.Context, userID uint, amount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refunds = append(m.refunds, amount)
	return nil
}

func (m *mockLedgerRepository) refundTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, amt := range m.refunds {
		total += amt
	}
	return total
}

func (m *mockLedgerRepository) incrementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.increments)
}

type mockSubscriptionRepository struct {
	subscription.Repository

	mu   sync.Mutex
	live *subscription.Subscription
}

func (m *mockSubscriptionRepository) GetLiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live, nil
}

func (m *mockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	return nil
}

type mockSynthesizer struct {
	GenerateFunc func(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
}

func (m *mockSynthesizer) Generate(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &SynthesisResult{ImageURL: "https://tmp.example.com/img.png", ProviderID: "prov_1"}, nil
}

type mockAssetStore struct {
	StoreFromURLFunc func(ctx context.Context, sourceURL, key string) (string, error)
}

func (m *mockAssetStore) StoreFromURL(ctx context.Context, sourceURL, key string) (string, error) {
	if m.StoreFromURLFunc != nil {
		return m.StoreFromURLFunc(ctx, sourceURL, key)
	}
	return "https://cdn.example.com/" + key, nil
}

func (m *mockAssetStore) Delete(ctx context.Context, key string) error { return nil }

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
