package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/generation"
	genvo "github.com/pixamint/pixamint/internal/domain/generation/valueobjects"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func stuckGeneration(t *testing.T, id uint, startedAgo time.Duration) *generation.Generation {
	t.Helper()
	startedAt := time.Now().UTC().Add(-startedAgo)
	gen, err := generation.Reconstruct(generation.ReconstructParams{
		ID:         id,
		SID:        "gen_stuck1",
		UserID:     7,
		Prompt:     "a quiet harbor",
		Model:      "flux-dev",
		Size:       "1024x1024",
		CreditCost: 1,
		Status:     genvo.StatusProcessing,
		Attempts:   1,
		StartedAt:  &startedAt,
		Version:    2,
		CreatedAt:  startedAt,
		UpdatedAt:  startedAt,
	})
	require.NoError(t, err)
	return gen
}

func TestReclaimStuckGenerations(t *testing.T) {
	stuck := stuckGeneration(t, 5, 30*time.Minute)
	fresh := stuckGeneration(t, 6, time.Minute)

	genRepo := &mockGenerationRepository{
		FindStuckProcessingFunc: func(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
			// the second row simulates a worker that picked the record up
			// after the sweep query ran
			return []*generation.Generation{stuck, fresh}, nil
		},
	}
	refunded := 0
	ledgerRepo := &mockLedgerRepository{
		RefundCreditsFunc: func(ctx context.Context, userID uint, amount int) error {
			refunded += amount
			return nil
		},
	}

	uc := NewReclaimStuckGenerationsUseCase(genRepo, ledgerRepo, passthroughTxManager{}, mockLogger{})
	reclaimed, err := uc.Execute(context.Background(), ReclaimStuckGenerationsCommand{Timeout: 10 * time.Minute})
	require.NoError(t, err)

	assert.Equal(t, 1, reclaimed)
	assert.Equal(t, genvo.StatusFailed, stuck.Status())
	assert.Equal(t, genvo.StatusProcessing, fresh.Status())
	assert.Equal(t, 1, refunded)
}

func TestReclaimStuckGenerations_ConcurrentCompletionKeepsReservation(t *testing.T) {
	stuck := stuckGeneration(t, 5, 30*time.Minute)

	genRepo := &mockGenerationRepository{
		FindStuckProcessingFunc: func(ctx context.Context, cutoff time.Time) ([]*generation.Generation, error) {
			return []*generation.Generation{stuck}, nil
		},
		UpdateFunc: func(ctx context.Context, g *generation.Generation) error {
			// a worker delivered the image after the sweep query ran and
			// bumped the row version
			return errors.NewConflictError("generation was modified concurrently")
		},
	}
	refunded := 0
	ledgerRepo := &mockLedgerRepository{
		RefundCreditsFunc: func(ctx context.Context, userID uint, amount int) error {
			refunded += amount
			return nil
		},
	}

	uc := NewReclaimStuckGenerationsUseCase(genRepo, ledgerRepo, passthroughTxManager{}, mockLogger{})
	reclaimed, err := uc.Execute(context.Background(), ReclaimStuckGenerationsCommand{Timeout: 10 * time.Minute})
	require.NoError(t, err)

	assert.Zero(t, reclaimed)
	assert.Zero(t, refunded, "a delivered image must keep its reservation")
}

func TestReclaimStuckGenerations_NothingToDo(t *testing.T) {
	uc := NewReclaimStuckGenerationsUseCase(&mockGenerationRepository{}, &mockLedgerRepository{}, passthroughTxManager{}, mockLogger{})
	reclaimed, err := uc.Execute(context.Background(), ReclaimStuckGenerationsCommand{})
	require.NoError(t, err)
	assert.Zero(t, reclaimed)
}
