package valueobjects

// Status models an image-generation attempt's lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the attempt has reached a final outcome.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusFailed
	case StatusProcessing:
		return target == StatusCompleted || target == StatusFailed
	case StatusFailed:
		// explicit owner retry re-enters the queue
		return target == StatusPending
	default:
		return false
	}
}

var ValidStatuses = map[Status]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusFailed:     true,
}
