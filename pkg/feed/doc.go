// Package feed provides a small in-process notification primitive: a
// typed publish/subscribe feed with callback subscribers and explicit
// unsubscribe handles.
//
// It replaces storage-native change observers with an engine-agnostic
// abstraction. Delivery is at-least-once and coalescing (last value
// wins), which suits eventually-consistent consumers such as derived
// caches: they converge on the latest published state without
// requiring every intermediate value.
package feed
