package valueobjects

// Status models the payment lifecycle. Transitions are forward only; a
// settled payment never returns to pending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func (s Status) String() string {
	return string(s)
}

// IsSettled reports whether the payment reached a terminal outcome.
func (s Status) IsSettled() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusRefunded
}

func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusSucceeded || target == StatusFailed
	case StatusSucceeded:
		return target == StatusRefunded
	default:
		return false
	}
}

var ValidStatuses = map[Status]bool{
	StatusPending:   true,
	StatusSucceeded: true,
	StatusFailed:    true,
	StatusRefunded:  true,
}
