package generation

import (
	"context"
	"time"
)

// Repository defines the persistence contract for generation records.
// Read methods return (nil, nil) when no matching record exists.
type Repository interface {
	Create(ctx context.Context, g *Generation) error
	GetByID(ctx context.Context, id uint) (*Generation, error)
	GetBySID(ctx context.Context, sid string) (*Generation, error)
	Update(ctx context.Context, g *Generation) error
	Delete(ctx context.Context, id uint) error

	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Generation, int64, error)
	ListPublic(ctx context.Context, page, pageSize int) ([]*Generation, int64, error)

	// FindStuckProcessing returns processing records started before the
	// cutoff, for reaper reclamation.
	FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*Generation, error)

	// FindFailedBefore returns failed records that reached their terminal
	// state before the cutoff, for retention purging.
	FindFailedBefore(ctx context.Context, cutoff time.Time) ([]*Generation, error)

	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
