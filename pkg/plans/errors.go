package plans

import "errors"

var (
	ErrUnknownTier              = errors.New("plans.unknown_tier")
	ErrPlanNotFound             = errors.New("plans.plan_not_found")
	ErrFailedToLoadPlans        = errors.New("plans.failed_to_load")
	ErrInvalidPlanConfiguration = errors.New("plans.invalid_configuration")
)
