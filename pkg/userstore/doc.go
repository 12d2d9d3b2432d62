// Package userstore persists user records — the single source of truth
// for each user's role and subscription tier — and publishes a
// before/after change feed on every write.
//
// The MongoDB implementation backs production; the in-memory one backs
// tests and local development. Both share the same merge-write
// contract: partial updates never touch unset fields, and records are
// created with lowest-privilege defaults when a merge lands before
// signup has written the record.
package userstore
