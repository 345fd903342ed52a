package usecases

import (
	"context"
	"fmt"

	"github.com/pixamint/pixamint/internal/domain/generation"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

type ListGenerationsCommand struct {
	UserID   uint
	Page     int
	PageSize int
}

type ListGenerationsResult struct {
	Items    []*GenerationResult
	Total    int64
	Page     int
	PageSize int
}

type ListGenerationsUseCase struct {
	genRepo generation.Repository
	logger  logger.Interface
}

func NewListGenerationsUseCase(genRepo generation.Repository, logger logger.Interface) *ListGenerationsUseCase {
	return &ListGenerationsUseCase{genRepo: genRepo, logger: logger}
}

func (uc *ListGenerationsUseCase) Execute(ctx context.Context, cmd ListGenerationsCommand) (*ListGenerationsResult, error) {
	page, pageSize := normalizePage(cmd.Page, cmd.PageSize)

	gens, total, err := uc.genRepo.ListByUserID(ctx, cmd.UserID, page, pageSize)
	if err != nil {
		uc.logger.Errorw("failed to list generations", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	return &ListGenerationsResult{
		Items:    toResults(gens),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

type ListPublicGenerationsCommand struct {
	Page     int
	PageSize int
}

type ListPublicGenerationsUseCase struct {
	genRepo generation.Repository
	logger  logger.Interface
}

func NewListPublicGenerationsUseCase(genRepo generation.Repository, logger logger.Interface) *ListPublicGenerationsUseCase {
	return &ListPublicGenerationsUseCase{genRepo: genRepo, logger: logger}
}

func (uc *ListPublicGenerationsUseCase) Execute(ctx context.Context, cmd ListPublicGenerationsCommand) (*ListGenerationsResult, error) {
	page, pageSize := normalizePage(cmd.Page, cmd.PageSize)

	gens, total, err := uc.genRepo.ListPublic(ctx, page, pageSize)
	if err != nil {
		uc.logger.Errorw("failed to list public generations", "error", err)
		return nil, fmt.Errorf("failed to list public generations: %w", err)
	}

	return &ListGenerationsResult{
		Items:    toResults(gens),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func toResults(gens []*generation.Generation) []*GenerationResult {
	items := make([]*GenerationResult, 0, len(gens))
	for _, g := range gens {
		items = append(items, toGenerationResult(g))
	}
	return items
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
