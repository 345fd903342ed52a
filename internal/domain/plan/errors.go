package plan

import "errors"

var (
	ErrPlanNotFound    = errors.New("plan not found")
	ErrPlanInactive    = errors.New("plan inactive")
	ErrPlanNameExists  = errors.New("plan name already exists")
	ErrInvalidCurrency = errors.New("invalid currency")
)
