package plan

import (
	"fmt"
	"time"

	"github.com/pixamint/pixamint/internal/shared/id"

	vo "github.com/pixamint/pixamint/internal/domain/plan/valueobjects"
)

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Plan is an immutable-per-version catalog entry. The metering engine only
// ever reads plans; mutation happens through administrative use cases.
type Plan struct {
	id              uint
	sid             string
	name            string
	displayName     string
	description     string
	priceCents      int64
	currency        string
	billingCycle    vo.BillingCycle
	creditAllotment int
	imageLimit      int
	features        []string
	providerPriceID *string
	active          bool
	priority        int
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlan creates a new catalog entry.
func NewPlan(name, displayName, description string, priceCents int64, currency string,
	billingCycle vo.BillingCycle, creditAllotment, imageLimit int) (*Plan, error) {

	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if displayName == "" {
		return nil, fmt.Errorf("plan display name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("plan price cannot be negative")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if !billingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}
	if creditAllotment < 0 {
		return nil, fmt.Errorf("credit allotment cannot be negative")
	}
	if imageLimit < 0 {
		return nil, fmt.Errorf("image limit cannot be negative")
	}

	sid, err := id.NewPlanSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan SID: %w", err)
	}

	now := time.Now().UTC()
	return &Plan{
		sid:             sid,
		name:            name,
		displayName:     displayName,
		description:     description,
		priceCents:      priceCents,
		currency:        currency,
		billingCycle:    billingCycle,
		creditAllotment: creditAllotment,
		imageLimit:      imageLimit,
		features:        []string{},
		active:          true,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID              uint
	SID             string
	Name            string
	DisplayName     string
	Description     string
	PriceCents      int64
	Currency        string
	BillingCycle    vo.BillingCycle
	CreditAllotment int
	ImageLimit      int
	Features        []string
	ProviderPriceID *string
	Active          bool
	Priority        int
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Reconstruct rebuilds a plan from persistence.
func Reconstruct(p ReconstructParams) (*Plan, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("plan SID is required")
	}
	if !p.BillingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", p.BillingCycle)
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &Plan{
		id:              p.ID,
		sid:             p.SID,
		name:            p.Name,
		displayName:     p.DisplayName,
		description:     p.Description,
		priceCents:      p.PriceCents,
		currency:        p.Currency,
		billingCycle:    p.BillingCycle,
		creditAllotment: p.CreditAllotment,
		imageLimit:      p.ImageLimit,
		features:        features,
		providerPriceID: p.ProviderPriceID,
		active:          p.Active,
		priority:        p.Priority,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}, nil
}

func (p *Plan) ID() uint                  { return p.id }
func (p *Plan) SID() string               { return p.sid }
func (p *Plan) Name() string              { return p.name }
func (p *Plan) DisplayName() string       { return p.displayName }
func (p *Plan) Description() string       { return p.description }
func (p *Plan) PriceCents() int64         { return p.priceCents }
func (p *Plan) Currency() string          { return p.currency }
func (p *Plan) BillingCycle() vo.BillingCycle { return p.billingCycle }
func (p *Plan) CreditAllotment() int      { return p.creditAllotment }
func (p *Plan) ImageLimit() int           { return p.imageLimit }
func (p *Plan) Features() []string        { return p.features }
func (p *Plan) ProviderPriceID() *string  { return p.providerPriceID }
func (p *Plan) IsActive() bool            { return p.active }
func (p *Plan) Priority() int             { return p.priority }
func (p *Plan) Version() int              { return p.version }
func (p *Plan) CreatedAt() time.Time      { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time      { return p.updatedAt }

// IsFree reports whether the plan costs nothing.
func (p *Plan) IsFree() bool {
	return p.priceCents == 0
}

// SetID sets the plan ID (only for persistence layer use).
func (p *Plan) SetID(planID uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if planID == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = planID
	return nil
}

// UpdateDetails changes the administrative fields of a plan.
func (p *Plan) UpdateDetails(displayName, description string, features []string, priority int) {
	if displayName != "" {
		p.displayName = displayName
	}
	if description != "" {
		p.description = description
	}
	if features != nil {
		p.features = features
	}
	p.priority = priority
	p.updatedAt = time.Now().UTC()
	p.version++
}

// SetProviderPriceID attaches the payment provider's price reference.
func (p *Plan) SetProviderPriceID(ref string) {
	p.providerPriceID = &ref
	p.updatedAt = time.Now().UTC()
	p.version++
}

// Deactivate removes the plan from sale. Existing subscriptions keep it.
func (p *Plan) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.updatedAt = time.Now().UTC()
	p.version++
}

// Activate returns the plan to sale.
func (p *Plan) Activate() {
	if p.active {
		return
	}
	p.active = true
	p.updatedAt = time.Now().UTC()
	p.version++
}
