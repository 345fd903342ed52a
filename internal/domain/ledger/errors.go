package ledger

import "errors"

var (
	// ErrInsufficientCredits indicates the balance cannot cover a reservation.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrLedgerNotFound indicates no ledger row exists for the user.
	ErrLedgerNotFound = errors.New("ledger not found")
)
