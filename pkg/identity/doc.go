// Package identity abstracts the external identity provider: the
// service that issues identity tokens and carries the mirrored role
// claim. The Firebase implementation backs production; the in-memory
// one backs tests.
//
// The role claim is a stale-tolerant cache for coarse gating only.
// Privileged actions must re-verify the role from the user record.
package identity
