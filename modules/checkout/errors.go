package checkout

import "errors"

// Validation failures are the client's fault and map to 4xx responses;
// ErrCheckoutFailed wraps processor failures and maps to a generic 5xx.
var (
	ErrMissingParameter = errors.New("checkout.missing_parameter")
	ErrUnknownPlan      = errors.New("checkout.unknown_plan")
	ErrNotPurchasable   = errors.New("checkout.not_purchasable")
	ErrPriceUnavailable = errors.New("checkout.price_unavailable")
	ErrCheckoutFailed   = errors.New("checkout.session_creation_failed")
)
