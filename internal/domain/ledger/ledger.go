// Package ledger holds the per-user credit balance and generation counters.
// The balance is the single authoritative quota counter: admission control,
// renewal resets, and failure refunds all go through it.
package ledger

import (
	"fmt"
	"time"
)

// Ledger is the account ledger aggregate. creditsRemaining never goes
// negative: Reserve rejects instead of clamping.
type Ledger struct {
	userID           uint
	creditsRemaining int
	imagesGenerated  int
	currentPlanID    *uint
	version          int
	updatedAt        time.Time
}

// NewLedger creates a ledger for a fresh user with the free-tier allotment.
func NewLedger(userID uint, freeCredits int) (*Ledger, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if freeCredits < 0 {
		return nil, fmt.Errorf("free credits cannot be negative")
	}
	return &Ledger{
		userID:           userID,
		creditsRemaining: freeCredits,
		version:          1,
		updatedAt:        time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a ledger from persistence.
func Reconstruct(userID uint, creditsRemaining, imagesGenerated int, currentPlanID *uint, version int, updatedAt time.Time) (*Ledger, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if creditsRemaining < 0 {
		return nil, fmt.Errorf("credits remaining cannot be negative")
	}
	if imagesGenerated < 0 {
		return nil, fmt.Errorf("images generated cannot be negative")
	}
	return &Ledger{
		userID:           userID,
		creditsRemaining: creditsRemaining,
		imagesGenerated:  imagesGenerated,
		currentPlanID:    currentPlanID,
		version:          version,
		updatedAt:        updatedAt,
	}, nil
}

func (l *Ledger) UserID() uint          { return l.userID }
func (l *Ledger) CreditsRemaining() int { return l.creditsRemaining }
func (l *Ledger) ImagesGenerated() int  { return l.imagesGenerated }
func (l *Ledger) CurrentPlanID() *uint  { return l.currentPlanID }
func (l *Ledger) Version() int          { return l.version }
func (l *Ledger) UpdatedAt() time.Time  { return l.updatedAt }

// HasCredits reports whether at least amount credits are available.
func (l *Ledger) HasCredits(amount int) bool {
	return l.creditsRemaining >= amount
}

// Reserve decrements the balance by amount, rejecting with
// ErrInsufficientCredits when the balance would go negative.
//
// This in-memory form backs validation and tests; under concurrent request
// traffic the storage layer performs the equivalent operation as a single
// conditional update so two requests cannot both observe the same balance.
func (l *Ledger) Reserve(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("reserve amount must be positive")
	}
	if l.creditsRemaining < amount {
		return ErrInsufficientCredits
	}
	l.creditsRemaining -= amount
	l.touch()
	return nil
}

// Refund returns amount credits to the balance. Used only to compensate a
// failed generation that previously reserved; the caller tracks whether the
// reservation was already refunded via the generation record state.
func (l *Ledger) Refund(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("refund amount must be positive")
	}
	l.creditsRemaining += amount
	l.touch()
	return nil
}

// RecordGeneration increments the monotonic generation counter.
func (l *Ledger) RecordGeneration() {
	l.imagesGenerated++
	l.touch()
}

// ResetForPeriod replaces the balance with a plan's allotment at activation
// or renewal and points the ledger at that plan.
func (l *Ledger) ResetForPeriod(allotment int, planID uint) error {
	if allotment < 0 {
		return fmt.Errorf("allotment cannot be negative")
	}
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	l.creditsRemaining = allotment
	l.currentPlanID = &planID
	l.touch()
	return nil
}

// ResetToFreeTier returns the ledger to the free allotment with no plan,
// on cancellation or expiry.
func (l *Ledger) ResetToFreeTier(freeCredits int) error {
	if freeCredits < 0 {
		return fmt.Errorf("free credits cannot be negative")
	}
	l.creditsRemaining = freeCredits
	l.currentPlanID = nil
	l.touch()
	return nil
}

func (l *Ledger) touch() {
	l.updatedAt = time.Now().UTC()
	l.version++
}
