// Package guard gates protected capabilities behind a required role.
//
// Gate is the observable form: it follows the resolver's
// loading/resolved lifecycle and fires a one-time deny side effect
// only after loading completes. Middleware is the HTTP form: it
// re-verifies the role from the user record on every request and
// redirects insufficient roles to the unauthorized destination.
package guard
