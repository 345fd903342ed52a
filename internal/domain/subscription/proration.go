package subscription

import (
	"math"
	"time"

	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
)

// ProrateUpgrade computes the amount in cents to charge when switching to a
// more expensive plan mid-period. The difference in plan price is spread
// over the nominal period length and charged for the days remaining.
// Downgrades and lateral moves prorate to zero.
func ProrateUpgrade(oldPriceCents, newPriceCents int64, cycle planvo.BillingCycle, now, periodEnd time.Time) int64 {
	diff := newPriceCents - oldPriceCents
	if diff <= 0 {
		return 0
	}
	if !periodEnd.After(now) {
		return 0
	}

	daysRemaining := periodEnd.Sub(now).Hours() / 24
	periodDays := float64(cycle.PeriodDays())
	if daysRemaining > periodDays {
		daysRemaining = periodDays
	}

	amount := math.Round(float64(diff) / periodDays * daysRemaining)
	if amount < 0 {
		return 0
	}
	return int64(amount)
}
