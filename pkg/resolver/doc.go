// Package resolver turns identity observations into resolved roles.
//
// It bridges the identity provider's auth stream and the user record
// store: whenever an identity appears, the resolver reads the record
// and publishes the role with a loading/ready lifecycle that gating
// code (package guard) consumes.
package resolver
