// Package payment records charges raised against the billing provider and
// their settlement outcomes.
package payment

import (
	"fmt"
	"time"

	vo "github.com/pixamint/pixamint/internal/domain/payment/valueobjects"
)

// Purpose identifies what a payment pays for.
type Purpose string

const (
	PurposeSubscription Purpose = "subscription"
	PurposeRenewal      Purpose = "renewal"
	PurposePlanChange   Purpose = "plan_change"
)

var validPurposes = map[Purpose]bool{
	PurposeSubscription: true,
	PurposeRenewal:      true,
	PurposePlanChange:   true,
}

// Payment is the payment aggregate root.
type Payment struct {
	id             uint
	sid            string
	userID         uint
	subscriptionID *uint
	amount         vo.Money
	purpose        Purpose
	status         vo.Status
	providerRef    *string
	failureReason  *string
	refundReason   *string
	paidAt         *time.Time
	refundedAt     *time.Time
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPayment creates a pending payment.
func NewPayment(sid string, userID uint, amount vo.Money, purpose Purpose) (*Payment, error) {
	if sid == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !validPurposes[purpose] {
		return nil, fmt.Errorf("invalid payment purpose: %s", purpose)
	}

	now := time.Now().UTC()
	return &Payment{
		sid:       sid,
		userID:    userID,
		amount:    amount,
		purpose:   purpose,
		status:    vo.StatusPending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID             uint
	SID            string
	UserID         uint
	SubscriptionID *uint
	Amount         vo.Money
	Purpose        Purpose
	Status         vo.Status
	ProviderRef    *string
	FailureReason  *string
	RefundReason   *string
	PaidAt         *time.Time
	RefundedAt     *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reconstruct rebuilds a payment from persistence.
func Reconstruct(p ReconstructParams) (*Payment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !validPurposes[p.Purpose] {
		return nil, fmt.Errorf("invalid payment purpose: %s", p.Purpose)
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid payment status: %s", p.Status)
	}

	return &Payment{
		id:             p.ID,
		sid:            p.SID,
		userID:         p.UserID,
		subscriptionID: p.SubscriptionID,
		amount:         p.Amount,
		purpose:        p.Purpose,
		status:         p.Status,
		providerRef:    p.ProviderRef,
		failureReason:  p.FailureReason,
		refundReason:   p.RefundReason,
		paidAt:         p.PaidAt,
		refundedAt:     p.RefundedAt,
		version:        p.Version,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
	}, nil
}

func (p *Payment) ID() uint               { return p.id }
func (p *Payment) SID() string            { return p.sid }
func (p *Payment) UserID() uint           { return p.userID }
func (p *Payment) SubscriptionID() *uint  { return p.subscriptionID }
func (p *Payment) Amount() vo.Money       { return p.amount }
func (p *Payment) Purpose() Purpose       { return p.purpose }
func (p *Payment) Status() vo.Status      { return p.status }
func (p *Payment) ProviderRef() *string   { return p.providerRef }
func (p *Payment) FailureReason() *string { return p.failureReason }
func (p *Payment) RefundReason() *string  { return p.refundReason }
func (p *Payment) PaidAt() *time.Time     { return p.paidAt }
func (p *Payment) RefundedAt() *time.Time { return p.refundedAt }
func (p *Payment) Version() int           { return p.version }
func (p *Payment) CreatedAt() time.Time   { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time   { return p.updatedAt }

// SetID sets the payment ID (only for persistence layer use).
func (p *Payment) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("payment ID cannot be zero")
	}
	p.id = id
	return nil
}

// AttachSubscription links the payment to the subscription it settles.
func (p *Payment) AttachSubscription(subscriptionID uint) error {
	if subscriptionID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	p.subscriptionID = &subscriptionID
	p.touch()
	return nil
}

// SetProviderRef records the billing provider's charge reference.
func (p *Payment) SetProviderRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("provider ref cannot be empty")
	}
	p.providerRef = &ref
	p.touch()
	return nil
}

// MarkSucceeded settles the payment as paid.
func (p *Payment) MarkSucceeded(paidAt time.Time) error {
	if p.status == vo.StatusSucceeded {
		return nil
	}
	if !p.status.CanTransitionTo(vo.StatusSucceeded) {
		return fmt.Errorf("cannot mark payment succeeded from %s", p.status)
	}
	p.status = vo.StatusSucceeded
	p.paidAt = &paidAt
	p.failureReason = nil
	p.touch()
	return nil
}

// MarkFailed settles the payment as failed with the provider's reason.
func (p *Payment) MarkFailed(reason string) error {
	if p.status == vo.StatusFailed {
		return nil
	}
	if !p.status.CanTransitionTo(vo.StatusFailed) {
		return fmt.Errorf("cannot mark payment failed from %s", p.status)
	}
	if reason == "" {
		reason = "unknown"
	}
	p.status = vo.StatusFailed
	p.failureReason = &reason
	p.touch()
	return nil
}

// MarkRefunded records a refund of a succeeded payment.
func (p *Payment) MarkRefunded(reason string, refundedAt time.Time) error {
	if p.status == vo.StatusRefunded {
		return nil
	}
	if !p.status.CanTransitionTo(vo.StatusRefunded) {
		return fmt.Errorf("cannot refund payment from %s", p.status)
	}
	p.status = vo.StatusRefunded
	if reason != "" {
		p.refundReason = &reason
	}
	p.refundedAt = &refundedAt
	p.touch()
	return nil
}

func (p *Payment) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}
