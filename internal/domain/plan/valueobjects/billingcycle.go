package valueobjects

import (
	"fmt"
	"time"
)

// BillingCycle is the cadence a plan is billed on.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) IsValid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

// ParseBillingCycle validates and converts a raw string into a BillingCycle.
func ParseBillingCycle(value string) (BillingCycle, error) {
	c := BillingCycle(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid billing cycle: %s", value)
	}
	return c, nil
}

// PeriodDays is the nominal period length used for proration math.
func (c BillingCycle) PeriodDays() int {
	if c == BillingCycleYearly {
		return 365
	}
	return 30
}

// NextPeriodEnd computes the end of a billing period starting at from.
func (c BillingCycle) NextPeriodEnd(from time.Time) time.Time {
	if c == BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
