package ledger

import "context"

// Repository defines the persistence contract for ledgers.
// Read methods return (nil, nil) when no ledger exists for the user.
type Repository interface {
	// Create persists a new ledger.
	Create(ctx context.Context, l *Ledger) error

	// GetByUserID retrieves the ledger for a user.
	GetByUserID(ctx context.Context, userID uint) (*Ledger, error)

	// Update persists ledger changes using optimistic locking.
	Update(ctx context.Context, l *Ledger) error

	// ReserveCredits atomically decrements the balance by amount if and only
	// if the balance covers it, reporting whether the reservation succeeded.
	// Implementations must make the check-and-decrement a single operation so
	// concurrent reservations cannot oversell the balance.
	ReserveCredits(ctx context.Context, userID uint, amount int) (bool, error)

	// RefundCredits atomically returns amount credits to the balance.
	RefundCredits(ctx context.Context, userID uint, amount int) error

	// IncrementImagesGenerated bumps the monotonic generation counter.
	IncrementImagesGenerated(ctx context.Context, userID uint) error

	// ResetForPeriod replaces the balance with allotment and sets the plan.
	ResetForPeriod(ctx context.Context, userID uint, allotment int, planID uint) error

	// ResetToFreeTier restores the free allotment and clears the plan.
	ResetToFreeTier(ctx context.Context, userID uint, freeCredits int) error
}
