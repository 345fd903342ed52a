package valueobjects

import (
	"fmt"
	"strings"
)

var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Money is an amount in the currency's minor unit (cents).
type Money struct {
	amountCents int64
	currency    string
}

// NewMoney validates and builds a Money value. Zero amounts are allowed for
// prorated downgrades.
func NewMoney(amountCents int64, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if amountCents < 0 {
		return Money{}, fmt.Errorf("amount cannot be negative")
	}
	if !supportedCurrencies[currency] {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	return Money{amountCents: amountCents, currency: currency}, nil
}

func (m Money) AmountCents() int64 { return m.amountCents }
func (m Money) Currency() string   { return m.currency }
func (m Money) IsZero() bool       { return m.amountCents == 0 }

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amountCents/100, m.amountCents%100, m.currency)
}
