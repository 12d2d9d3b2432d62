package payhook

import "errors"

var (
	// ErrMissingMetadata marks an authentic event without the
	// {userId, planId} reconciliation metadata. Rejected loudly, never
	// swallowed.
	ErrMissingMetadata = errors.New("payhook.missing_metadata")

	// ErrInvalidMetadata marks metadata whose planId is outside the
	// closed tier set.
	ErrInvalidMetadata = errors.New("payhook.invalid_metadata")

	// ErrApplyFailed marks a store write failure. The only error class
	// that should make the processor redeliver the event.
	ErrApplyFailed = errors.New("payhook.apply_failed")
)
