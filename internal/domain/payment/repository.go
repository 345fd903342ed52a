package payment

import "context"

// Repository defines the persistence contract for payments.
// Read methods return (nil, nil) when no matching payment exists.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	GetBySID(ctx context.Context, sid string) (*Payment, error)
	GetByProviderRef(ctx context.Context, ref string) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Payment, int64, error)
	ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*Payment, error)
}
