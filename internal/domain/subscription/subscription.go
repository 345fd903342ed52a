package subscription

import (
	"fmt"
	"time"

	planvo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
	vo "github.com/pixamint/pixamint/internal/domain/subscription/valueobjects"
)

// Subscription represents the subscription aggregate root. One user holds at
// most one subscription that is not cancelled or expired.
type Subscription struct {
	id                 uint
	sid                string
	userID             uint
	planID             uint
	status             vo.Status
	billingCycle       planvo.BillingCycle
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	autoRenew          bool
	imagesUsed         int
	scheduledPlanID    *uint
	providerSubRef     *string
	cancelledAt        *time.Time
	cancelReason       *string
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates a subscription awaiting its first payment. The
// billing period starts only on activation.
func NewSubscription(sid string, userID, planID uint, cycle planvo.BillingCycle) (*Subscription, error) {
	if sid == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !cycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", cycle)
	}

	now := time.Now().UTC()
	return &Subscription{
		sid:          sid,
		userID:       userID,
		planID:       planID,
		status:       vo.StatusPendingPayment,
		billingCycle: cycle,
		autoRenew:    true,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID                 uint
	SID                string
	UserID             uint
	PlanID             uint
	Status             vo.Status
	BillingCycle       planvo.BillingCycle
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	AutoRenew          bool
	ImagesUsed         int
	ScheduledPlanID    *uint
	ProviderSubRef     *string
	CancelledAt        *time.Time
	CancelReason       *string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Reconstruct rebuilds a subscription from persistence.
func Reconstruct(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("sid is required")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.PlanID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.BillingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", p.BillingCycle)
	}
	if p.ImagesUsed < 0 {
		return nil, fmt.Errorf("images used cannot be negative")
	}

	return &Subscription{
		id:                 p.ID,
		sid:                p.SID,
		userID:             p.UserID,
		planID:             p.PlanID,
		status:             p.Status,
		billingCycle:       p.BillingCycle,
		currentPeriodStart: p.CurrentPeriodStart,
		currentPeriodEnd:   p.CurrentPeriodEnd,
		autoRenew:          p.AutoRenew,
		imagesUsed:         p.ImagesUsed,
		scheduledPlanID:    p.ScheduledPlanID,
		providerSubRef:     p.ProviderSubRef,
		cancelledAt:        p.CancelledAt,
		cancelReason:       p.CancelReason,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                          { return s.id }
func (s *Subscription) SID() string                       { return s.sid }
func (s *Subscription) UserID() uint                      { return s.userID }
func (s *Subscription) PlanID() uint                      { return s.planID }
func (s *Subscription) Status() vo.Status                 { return s.status }
func (s *Subscription) BillingCycle() planvo.BillingCycle { return s.billingCycle }
func (s *Subscription) CurrentPeriodStart() time.Time     { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time       { return s.currentPeriodEnd }
func (s *Subscription) AutoRenew() bool                   { return s.autoRenew }
func (s *Subscription) ImagesUsed() int                   { return s.imagesUsed }
func (s *Subscription) ScheduledPlanID() *uint            { return s.scheduledPlanID }
func (s *Subscription) ProviderSubRef() *string           { return s.providerSubRef }
func (s *Subscription) CancelledAt() *time.Time           { return s.cancelledAt }
func (s *Subscription) CancelReason() *string             { return s.cancelReason }
func (s *Subscription) Version() int                      { return s.version }
func (s *Subscription) CreatedAt() time.Time              { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time              { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use).
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// SetProviderSubRef records the billing provider's subscription reference.
func (s *Subscription) SetProviderSubRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("provider subscription ref cannot be empty")
	}
	s.providerSubRef = &ref
	s.touch()
	return nil
}

// Activate transitions to active after a confirmed payment and opens the
// billing period. Usage resets with the new period.
func (s *Subscription) Activate(periodStart, periodEnd time.Time) error {
	if s.status == vo.StatusActive {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusActive) {
		return fmt.Errorf("%w: cannot activate from %s", ErrInvalidTransition, s.status)
	}
	if !periodEnd.After(periodStart) {
		return fmt.Errorf("period end must be after period start")
	}

	s.status = vo.StatusActive
	s.currentPeriodStart = periodStart
	s.currentPeriodEnd = periodEnd
	s.imagesUsed = 0
	s.cancelledAt = nil
	s.cancelReason = nil
	s.touch()
	return nil
}

// Cancel ends the subscription immediately when immediate is set, otherwise
// it only disables auto-renew and lets the paid period run out.
func (s *Subscription) Cancel(reason string, immediate bool) error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if s.status != vo.StatusActive && s.status != vo.StatusPastDue {
		return fmt.Errorf("%w: cannot cancel from %s", ErrInvalidTransition, s.status)
	}
	if reason == "" {
		return fmt.Errorf("cancel reason is required")
	}

	if !immediate {
		s.autoRenew = false
		s.cancelReason = &reason
		s.touch()
		return nil
	}

	now := time.Now().UTC()
	s.status = vo.StatusCancelled
	s.autoRenew = false
	s.cancelledAt = &now
	s.cancelReason = &reason
	s.scheduledPlanID = nil
	s.touch()
	return nil
}

// MarkPastDue flags a failed renewal charge. Entitlements are suspended
// until payment recovers or the grace window lapses.
func (s *Subscription) MarkPastDue() error {
	if s.status == vo.StatusPastDue {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusPastDue) {
		return fmt.Errorf("%w: cannot mark past_due from %s", ErrInvalidTransition, s.status)
	}
	s.status = vo.StatusPastDue
	s.touch()
	return nil
}

// Renew advances the billing period after a successful renewal charge and
// applies any scheduled plan change. Usage resets with the new period.
func (s *Subscription) Renew(newPeriodEnd time.Time) error {
	if !s.status.CanRenew() {
		return fmt.Errorf("%w: cannot renew from %s", ErrInvalidTransition, s.status)
	}
	if !newPeriodEnd.After(s.currentPeriodEnd) {
		return fmt.Errorf("new period end must be after current period end")
	}

	s.currentPeriodStart = s.currentPeriodEnd
	s.currentPeriodEnd = newPeriodEnd
	s.imagesUsed = 0

	if s.scheduledPlanID != nil {
		s.planID = *s.scheduledPlanID
		s.scheduledPlanID = nil
	}

	if s.status == vo.StatusPastDue {
		s.status = vo.StatusActive
	}

	s.touch()
	return nil
}

// MarkExpired closes out a subscription whose paid period lapsed without
// renewal, or whose checkout was abandoned.
func (s *Subscription) MarkExpired() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return fmt.Errorf("%w: cannot expire from %s", ErrInvalidTransition, s.status)
	}
	s.status = vo.StatusExpired
	s.autoRenew = false
	s.scheduledPlanID = nil
	s.touch()
	return nil
}

// Reactivate restores a cancelled or expired subscription to active. Only
// valid while the already-paid period has not run out.
func (s *Subscription) Reactivate(now time.Time) error {
	if s.status != vo.StatusCancelled && s.status != vo.StatusExpired {
		return fmt.Errorf("%w: cannot reactivate from %s", ErrInvalidTransition, s.status)
	}
	if !s.currentPeriodEnd.After(now) {
		return ErrPeriodLapsed
	}

	s.status = vo.StatusActive
	s.autoRenew = true
	s.cancelledAt = nil
	s.cancelReason = nil
	s.touch()
	return nil
}

// ChangePlan switches to a new plan immediately, mid-period. The period
// dates are untouched; the caller settles any price difference.
func (s *Subscription) ChangePlan(newPlanID uint, cycle planvo.BillingCycle) error {
	if newPlanID == 0 {
		return fmt.Errorf("new plan ID is required")
	}
	if newPlanID == s.planID {
		return nil
	}
	if s.status != vo.StatusActive {
		return fmt.Errorf("%w: cannot change plan from %s", ErrInvalidTransition, s.status)
	}
	if !cycle.IsValid() {
		return fmt.Errorf("invalid billing cycle: %s", cycle)
	}

	s.planID = newPlanID
	s.billingCycle = cycle
	s.scheduledPlanID = nil
	s.touch()
	return nil
}

// SchedulePlanChange records a downgrade to apply at the next renewal.
func (s *Subscription) SchedulePlanChange(planID uint) error {
	if planID == 0 {
		return fmt.Errorf("plan ID is required")
	}
	if s.status != vo.StatusActive {
		return fmt.Errorf("%w: cannot schedule plan change from %s", ErrInvalidTransition, s.status)
	}
	if planID == s.planID {
		s.scheduledPlanID = nil
		s.touch()
		return nil
	}

	s.scheduledPlanID = &planID
	s.touch()
	return nil
}

// RecordImageUse increments the per-period usage counter.
func (s *Subscription) RecordImageUse() {
	s.imagesUsed++
	s.touch()
}

// ResetUsage zeroes the per-period usage counter.
func (s *Subscription) ResetUsage() {
	if s.imagesUsed == 0 {
		return
	}
	s.imagesUsed = 0
	s.touch()
}

// SetAutoRenew updates the auto-renew flag.
func (s *Subscription) SetAutoRenew(autoRenew bool) {
	if s.autoRenew == autoRenew {
		return
	}
	s.autoRenew = autoRenew
	s.touch()
}

// IsPeriodLapsed reports whether the paid period has run out.
func (s *Subscription) IsPeriodLapsed(now time.Time) bool {
	return !s.currentPeriodEnd.After(now)
}

// IsActive reports whether the subscription currently grants entitlements.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.status.CanUseService() && !s.IsPeriodLapsed(now)
}

// DaysRemaining returns whole days left in the current period, never negative.
func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.IsPeriodLapsed(now) {
		return 0
	}
	return int(s.currentPeriodEnd.Sub(now).Hours() / 24)
}

func (s *Subscription) touch() {
	s.updatedAt = time.Now().UTC()
	s.version++
}
