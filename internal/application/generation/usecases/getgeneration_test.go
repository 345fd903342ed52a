package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/shared/errors"
)

func TestGetGeneration_Owner(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewGetGenerationUseCase(genRepo, mockLogger{})
	result, err := uc.Execute(context.Background(), GetGenerationCommand{UserID: 7, SID: gen.SID()})
	require.NoError(t, err)

	assert.Equal(t, "completed", result.Status)
	// owners do not inflate their own view count
	assert.Zero(t, gen.ViewCount())
}

func TestGetGeneration_PublicViewCounted(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	gen.SetVisibility(true)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewGetGenerationUseCase(genRepo, mockLogger{})
	_, err := uc.Execute(context.Background(), GetGenerationCommand{UserID: 8, SID: gen.SID()})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.ViewCount())
}

func TestGetGeneration_PrivateHiddenFromOthers(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewGetGenerationUseCase(genRepo, mockLogger{})
	_, err := uc.Execute(context.Background(), GetGenerationCommand{UserID: 8, SID: gen.SID()})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestSetVisibility_PublishRequiresCompleted(t *testing.T) {
	gen := failedGeneration(t, 5, 7)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewSetVisibilityUseCase(genRepo, mockLogger{})
	err := uc.Execute(context.Background(), SetVisibilityCommand{UserID: 7, SID: gen.SID(), Public: true})
	assert.True(t, errors.IsConflictError(err))
}

func TestSetVisibility_Publish(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewSetVisibilityUseCase(genRepo, mockLogger{})
	require.NoError(t, uc.Execute(context.Background(), SetVisibilityCommand{UserID: 7, SID: gen.SID(), Public: true}))
	assert.True(t, gen.IsPublic())

	// unpublishing is always allowed
	require.NoError(t, uc.Execute(context.Background(), SetVisibilityCommand{UserID: 7, SID: gen.SID(), Public: false}))
	assert.False(t, gen.IsPublic())
}

func TestLikeGeneration_RequiresPublic(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewLikeGenerationUseCase(genRepo, mockLogger{})
	err := uc.Execute(context.Background(), LikeGenerationCommand{SID: gen.SID()})
	assert.True(t, errors.IsForbiddenError(err))

	gen.SetVisibility(true)
	require.NoError(t, uc.Execute(context.Background(), LikeGenerationCommand{SID: gen.SID()}))
	assert.Equal(t, 1, gen.LikeCount())
}

func TestDeleteGeneration_TerminalOnly(t *testing.T) {
	gen := newGeneration(t, 5, 7)
	require.NoError(t, gen.Start())
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
	}
	uc := NewDeleteGenerationUseCase(genRepo, &mockAssetStore{}, mockLogger{})
	err := uc.Execute(context.Background(), DeleteGenerationCommand{UserID: 7, SID: gen.SID()})
	assert.True(t, errors.IsConflictError(err))
}

func TestDeleteGeneration_RemovesAsset(t *testing.T) {
	gen := completedGeneration(t, 5, 7)
	deleted := false
	deletedKey := ""
	genRepo := &mockGenerationRepository{
		GetBySIDFunc: func(ctx context.Context, sid string) (*generation.Generation, error) {
			return gen, nil
		},
		DeleteFunc: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}
	assets := &mockAssetStore{
		DeleteFunc: func(ctx context.Context, key string) error {
			deletedKey = key
			return nil
		},
	}
	uc := NewDeleteGenerationUseCase(genRepo, assets, mockLogger{})
	require.NoError(t, uc.Execute(context.Background(), DeleteGenerationCommand{UserID: 7, SID: gen.SID()}))

	assert.True(t, deleted)
	assert.Equal(t, gen.SID()+".png", deletedKey)
}

func TestListGenerations_NormalizesPaging(t *testing.T) {
	var gotPage, gotSize int
	genRepo := &mockGenerationRepository{
		ListByUserIDFunc: func(ctx context.Context, userID uint, page, pageSize int) ([]*generation.Generation, int64, error) {
			gotPage, gotSize = page, pageSize
			return []*generation.Generation{completedGeneration(t, 5, userID)}, 1, nil
		},
	}
	uc := NewListGenerationsUseCase(genRepo, mockLogger{})
	result, err := uc.Execute(context.Background(), ListGenerationsCommand{UserID: 7, Page: 0, PageSize: 500})
	require.NoError(t, err)

	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotSize)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "completed", result.Items[0].Status)
}
