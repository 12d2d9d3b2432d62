package identity

import "errors"

var (
	ErrEmptyUID            = errors.New("identity.empty_uid")
	ErrProviderUnavailable = errors.New("identity.provider_unavailable")
	ErrClaimWriteFailed    = errors.New("identity.claim_write_failed")
	ErrInvalidToken        = errors.New("identity.invalid_token")
)
