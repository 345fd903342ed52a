package valueobjects

// Status models the subscription lifecycle.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusActive         Status = "active"
	StatusPastDue        Status = "past_due"
	StatusCancelled      Status = "cancelled"
	StatusExpired        Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// CanUseService reports whether the subscription grants plan entitlements.
func (s Status) CanUseService() bool {
	return s == StatusActive
}

// CanRenew reports whether a renewal payment may be applied.
func (s Status) CanRenew() bool {
	return s == StatusActive || s == StatusPastDue
}

// CanTransitionTo enforces the lifecycle edges. Cancelled and expired are
// terminal except for reactivation back to active.
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPendingPayment: {StatusActive, StatusExpired},
		StatusActive:         {StatusPastDue, StatusCancelled, StatusExpired},
		StatusPastDue:        {StatusActive, StatusCancelled, StatusExpired},
		StatusCancelled:      {StatusActive},
		StatusExpired:        {StatusActive},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[Status]bool{
	StatusPendingPayment: true,
	StatusActive:         true,
	StatusPastDue:        true,
	StatusCancelled:      true,
	StatusExpired:        true,
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, ValidStatuses[s]
}
