package account

import "errors"

var (
	// ErrMissingParameter is returned when a required request field is
	// empty.
	ErrMissingParameter = errors.New("account.missing_parameter")

	// ErrDowngradeFailed wraps a store failure while applying a
	// self-service downgrade.
	ErrDowngradeFailed = errors.New("account.downgrade_failed")

	// ErrRegistrationFailed wraps a store failure while creating the
	// signup record.
	ErrRegistrationFailed = errors.New("account.registration_failed")
)
