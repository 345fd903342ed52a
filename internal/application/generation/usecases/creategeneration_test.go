package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/domain/ledger"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func TestCreateGeneration_Success(t *testing.T) {
	var created *generation.Generation
	genRepo := &mockGenerationRepository{
		CreateFunc: func(ctx context.Context, g *generation.Generation) error {
			created = g
			return g.SetID(5)
		},
	}

	var reservedAmount int
	ledgerRepo := &mockLedgerRepository{
		GetByUserIDFunc: func(ctx context.Context, userID uint) (*ledger.Ledger, error) {
			return fundedLedger(t, 10), nil
		},
		ReserveCreditsFunc: func(ctx context.Context, userID uint, amount int) (bool, error) {
			reservedAmount = amount
			return true, nil
		},
	}

	uc := NewCreateGenerationUseCase(genRepo, ledgerRepo, usageGate(fundedLedger(t, 10)), idleWorkflow(4), 1, mockLogger{})
	result, err := uc.Execute(context.Background(), CreateGenerationCommand{
		UserID: 7,
		Prompt: "a fox in the snow",
		Model:  "flux-dev",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "a fox in the snow", result.Prompt)
	assert.Equal(t, 1, result.CreditCost)
	assert.Equal(t, 1, reservedAmount)
	require.NotNil(t, created)
	assert.Equal(t, "1024x1024", created.Size())
}

func TestCreateGeneration_SanitizesPrompt(t *testing.T) {
	var created *generation.Generation
	genRepo := &mockGenerationRepository{
		CreateFunc: func(ctx context.Context, g *generation.Generation) error {
			created = g
			return g.SetID(5)
		},
	}

	uc := NewCreateGenerationUseCase(genRepo, &mockLedgerRepository{}, usageGate(fundedLedger(t, 10)), idleWorkflow(4), 1, mockLogger{})
	_, err := uc.Execute(context.Background(), CreateGenerationCommand{
		UserID: 7,
		Model:  "flux-dev",
		Prompt: `a castle <script>alert("x")</script> at dusk`,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.NotContains(t, created.Prompt(), "<script>")
	assert.Contains(t, created.Prompt(), "a castle")
}

func TestCreateGeneration_InsufficientCredits(t *testing.T) {
	uc := NewCreateGenerationUseCase(
		&mockGenerationRepository{}, &mockLedgerRepository{},
		usageGate(fundedLedger(t, 0)), idleWorkflow(4), 1, mockLogger{},
	)
	_, err := uc.Execute(context.Background(), CreateGenerationCommand{UserID: 7, Prompt: "anything"})
	assert.True(t, errors.IsInsufficientCreditsError(err))
}

func TestCreateGeneration_ConcurrentReserveBurst(t *testing.T) {
	const balance = 5
	const requests = 8

	var mu sync.Mutex
	credits := balance
	ledgerRepo := &mockLedgerRepository{
		ReserveCreditsFunc: func(ctx context.Context, userID uint, amount int) (bool, error) {
			// conditional decrement, like the single-statement UPDATE the
			// real repository issues
			mu.Lock()
			defer mu.Unlock()
			if credits < amount {
				return false, nil
			}
			credits -= amount
			return true, nil
		},
	}

	uc := NewCreateGenerationUseCase(
		&mockGenerationRepository{}, ledgerRepo,
		usageGate(fundedLedger(t, balance)), idleWorkflow(requests), 1, mockLogger{},
	)

	var wg sync.WaitGroup
	var granted int64
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CreateGenerationCommand{
				UserID: 7,
				Prompt: "a lighthouse at dawn",
				Model:  "flux-dev",
			})
			if err == nil {
				atomic.AddInt64(&granted, 1)
			} else {
				assert.True(t, errors.IsInsufficientCreditsError(err))
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, balance, granted, "exactly the funded amount may be admitted")
	mu.Lock()
	assert.Zero(t, credits, "the burst must drain the balance to zero, never below")
	mu.Unlock()
}

func TestCreateGeneration_ReservationRace(t *testing.T) {
	// the gate passed but another request drained the balance first
	ledgerRepo := &mockLedgerRepository{
		ReserveCreditsFunc: func(ctx context.Context, userID uint, amount int) (bool, error) {
			return false, nil
		},
	}
	uc := NewCreateGenerationUseCase(
		&mockGenerationRepository{}, ledgerRepo,
		usageGate(fundedLedger(t, 1)), idleWorkflow(4), 1, mockLogger{},
	)
	_, err := uc.Execute(context.Background(), CreateGenerationCommand{UserID: 7, Prompt: "anything"})
	assert.True(t, errors.IsInsufficientCreditsError(err))
}

func TestCreateGeneration_EmptyPromptRefunds(t *testing.T) {
	refunded := 0
	ledgerRepo := &mockLedgerRepository{
		RefundCreditsFunc: func(ctx context.Context, userID uint, amount int) error {
			refunded += amount
			return nil
		},
	}
	uc := NewCreateGenerationUseCase(
		&mockGenerationRepository{}, ledgerRepo,
		usageGate(fundedLedger(t, 10)), idleWorkflow(4), 1, mockLogger{},
	)
	_, err := uc.Execute(context.Background(), CreateGenerationCommand{UserID: 7, Prompt: "   ", Model: "flux-dev"})
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 1, refunded)
}

func TestCreateGeneration_QueueFullCompensates(t *testing.T) {
	var failedRecord *generation.Generation
	genRepo := &mockGenerationRepository{
		UpdateFunc: func(ctx context.Context, g *generation.Generation) error {
			failedRecord = g
			return nil
		},
	}
	refunded := 0
	ledgerRepo := &mockLedgerRepository{
		RefundCreditsFunc: func(ctx context.Context, userID uint, amount int) error {
			refunded += amount
			return nil
		},
	}

	workflow := idleWorkflow(1)
	require.NoError(t, workflow.Enqueue(99)) // saturate the buffer

	uc := NewCreateGenerationUseCase(genRepo, ledgerRepo, usageGate(fundedLedger(t, 10)), workflow, 1, mockLogger{})
	_, err := uc.Execute(context.Background(), CreateGenerationCommand{UserID: 7, Prompt: "a busy day", Model: "flux-dev"})
	require.Error(t, err)

	// the record is failed and the reservation returned
	require.NotNil(t, failedRecord)
	assert.Equal(t, "failed", failedRecord.Status().String())
	assert.Equal(t, 1, refunded)
}
