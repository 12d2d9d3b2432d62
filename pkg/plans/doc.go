// Package plans holds the static subscription catalog: the definition
// of each tier (pricing, features, processor price identifiers).
//
// The catalog answers what a tier is, never what a user has; the user
// record owns the latter. Definitions are loaded once at startup from a
// Source (in-memory defaults or a YAML file) and are immutable for the
// process lifetime.
package plans
