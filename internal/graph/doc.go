// Package graph builds the dependency graph that drives propagation: for
// every physical axis read by some expression, the ordered list of virtual
// axes that must be recomputed when it changes.
//
// # Shape
//
// The graph is a two-level fan-out:
//
//	physical axis ──► virtual axis, virtual axis, ...
//
// Expressions may only reference physical devices. A reference to a
// virtual device (or to any other unknown name) is reported as an
// UndefinedDeviceError at build time.
//
// # Identity
//
// Virtual devices live in an arena indexed by VirtDeviceID. A VirtAxis holds
// the id of its device rather than a handle to it, so several axes of one
// device share it without aliasing, and downstream deduplication compares
// (device id, axis, expression) by value.
//
// # Determinism
//
// Build visits virtual devices in name order and their axes in evdev code
// order. Downstream lists, and hence the order in which the engine fans out
// one update, follow that visiting order.
//
// # Lifecycle
//
// A Graph is built once from a validated configuration and is read-only
// afterwards. It is safe for concurrent readers. Rebuilding means calling
// Build again and swapping the result in as a whole.
package graph
