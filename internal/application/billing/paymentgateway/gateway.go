// Package paymentgateway defines the billing provider contract consumed by
// the subscription and billing use cases.
package paymentgateway

import "context"

// CheckoutParams starts a hosted checkout for a new subscription.
type CheckoutParams struct {
	PaymentSID    string
	CustomerEmail string
	CustomerRef   string
	PlanName      string
	PriceRef      string
	AmountCents   int64
	Currency      string
	ReturnURL     string
}

// CheckoutSession is the provider's hosted payment page.
type CheckoutSession struct {
	ProviderRef string
	CheckoutURL string
	CustomerRef string
}

// ChargeParams charges an existing customer off-session, used for proration.
// PaymentSID doubles as the idempotency key.
type ChargeParams struct {
	PaymentSID  string
	CustomerRef string
	AmountCents int64
	Currency    string
	Description string
}

// ChargeResult is a synchronous charge outcome.
type ChargeResult struct {
	ProviderRef   string
	Succeeded     bool
	FailureReason string
}

// RefundParams reverses a settled charge.
type RefundParams struct {
	ProviderPaymentRef string
	Reason             string
}

// Gateway is the payment provider collaborator.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	Charge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
	Refund(ctx context.Context, params RefundParams) (string, error)
	CancelSubscription(ctx context.Context, providerSubRef string) error
}
