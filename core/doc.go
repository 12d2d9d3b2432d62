// Package core holds the small shared HTTP surface: JSON response and
// error envelopes used by every module router.
package core
