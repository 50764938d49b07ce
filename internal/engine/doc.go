// Package engine propagates physical axis updates to virtual axes.
//
// Listener workers, one per physical device, block on NextEvent and push
// every update into a single unbounded Queue. One consumer, Engine.Run,
// pops updates in arrival order and fully propagates each before taking
// the next: for every downstream virtual axis it binds the triggering
// value, reads the other inputs from their devices at that moment,
// evaluates the expression and writes the result.
//
// A failure on one virtual axis is logged and skipped unless the engine was
// created with Options.FailFast.
package engine
