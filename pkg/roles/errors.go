package roles

import "errors"

// ErrInvalidRole is returned when a value is outside the closed role set.
var ErrInvalidRole = errors.New("roles.invalid_role")
