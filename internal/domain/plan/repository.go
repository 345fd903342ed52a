package plan

import "context"

// Repository is the persistence port for the plan catalog.
// Implementations return (nil, nil) when the plan does not exist.
type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, planID uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error

	// ListActive returns active plans ordered by priority.
	ListActive(ctx context.Context) ([]*Plan, error)
	ListAll(ctx context.Context) ([]*Plan, error)
}
