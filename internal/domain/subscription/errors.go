package subscription

import "errors"

var (
	// ErrSubscriptionNotFound indicates no subscription exists for the lookup.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrInvalidTransition indicates a lifecycle edge that is not allowed.
	ErrInvalidTransition = errors.New("invalid subscription transition")

	// ErrPeriodLapsed indicates the paid period has already run out.
	ErrPeriodLapsed = errors.New("subscription period has lapsed")

	// ErrAlreadySubscribed indicates the user already holds a live subscription.
	ErrAlreadySubscribed = errors.New("user already has an active subscription")
)
