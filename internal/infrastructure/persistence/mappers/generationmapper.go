package mappers

import (
	"github.com/pixamint/pixamint/internal/domain/generation"
	vo "github.com/pixamint/pixamint/internal/domain/generation/valueobjects"
	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
)

func GenerationToModel(g *generation.Generation) *models.GenerationModel {
	return &models.GenerationModel{
		ID:          g.ID(),
		SID:         g.SID(),
		UserID:      g.UserID(),
		Prompt:      g.Prompt(),
		Model:       g.Model(),
		Size:        g.Size(),
		CreditCost:  g.CreditCost(),
		Status:      g.Status().String(),
		AssetURL:    g.AssetURL(),
		ErrorDetail: g.ErrorDetail(),
		IsPublic:    g.IsPublic(),
		LikeCount:   g.LikeCount(),
		ViewCount:   g.ViewCount(),
		Attempts:    g.Attempts(),
		StartedAt:   g.StartedAt(),
		CompletedAt: g.CompletedAt(),
		Version:     g.Version(),
		CreatedAt:   g.CreatedAt(),
		UpdatedAt:   g.UpdatedAt(),
	}
}

func GenerationToDomain(model *models.GenerationModel) (*generation.Generation, error) {
	return generation.Reconstruct(generation.ReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		UserID:      model.UserID,
		Prompt:      model.Prompt,
		Model:       model.Model,
		Size:        model.Size,
		CreditCost:  model.CreditCost,
		Status:      vo.Status(model.Status),
		AssetURL:    model.AssetURL,
		ErrorDetail: model.ErrorDetail,
		IsPublic:    model.IsPublic,
		LikeCount:   model.LikeCount,
		ViewCount:   model.ViewCount,
		Attempts:    model.Attempts,
		StartedAt:   model.StartedAt,
		CompletedAt: model.CompletedAt,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}
