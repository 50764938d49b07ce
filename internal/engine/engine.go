package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/expr"
	"github.com/vk/axisflow/internal/graph"
)

// Options tune runtime failure handling.
type Options struct {
	// FailFast makes the first per-axis failure stop propagation and Run.
	FailFast bool
}

// Report summarizes the handling of one update.
type Report struct {
	Ignored  bool
	Written  int
	Failures []*AxisError
}

// state is a graph together with the sinks of its virtual device arena,
// indexed by graph.VirtDeviceID. It is replaced as a whole.
type state struct {
	graph *graph.Graph
	sinks []device.Sink
}

// Engine is the single consumer of physical axis updates.
type Engine struct {
	sources map[string]device.Source
	opts    Options
	state   atomic.Pointer[state]
}

// New creates an engine for g. sources are read on demand for the inputs of
// an expression other than the triggering axis; sinks must contain every
// virtual device of g.
func New(g *graph.Graph, sources map[string]device.Source, sinks map[string]device.Sink, opts Options) (*Engine, error) {
	st, err := bind(g, sinks)
	if err != nil {
		return nil, err
	}
	e := &Engine{sources: sources, opts: opts}
	e.state.Store(st)
	return e, nil
}

func bind(g *graph.Graph, sinks map[string]device.Sink) (*state, error) {
	st := &state{graph: g, sinks: make([]device.Sink, len(g.Devices()))}
	for _, d := range g.Devices() {
		s, ok := sinks[d.Name]
		if !ok {
			return nil, fmt.Errorf("no sink for virtual device %q", d.Name)
		}
		st.sinks[d.ID] = device.Serialized(s)
	}
	return st, nil
}

// Graph returns the graph currently in use.
func (e *Engine) Graph() *graph.Graph {
	return e.state.Load().graph
}

// Swap atomically replaces the graph and its sinks. An update being handled
// finishes against the previous graph; the next one sees g.
func (e *Engine) Swap(g *graph.Graph, sinks map[string]device.Sink) error {
	st, err := bind(g, sinks)
	if err != nil {
		return err
	}
	e.state.Store(st)
	return nil
}

// Run handles updates from q in arrival order until q is closed and
// drained, ctx ends, or, with FailFast, an axis fails.
func (e *Engine) Run(ctx context.Context, q *Queue) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Propagation engine started.")
	for {
		u, err := q.Pop(ctx)
		if errors.Is(err, ErrQueueClosed) {
			logger.Info("Update stream ended, engine stopping.")
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := e.Handle(ctx, u); err != nil {
			return err
		}
	}
}

// Handle propagates one update to every virtual axis downstream of it, in
// graph order, each to completion before the next. An update no virtual
// axis depends on is ignored. Per-axis failures are collected in the
// report; only with FailFast is the first one returned as an error.
func (e *Engine) Handle(ctx context.Context, u device.AxisUpdate) (Report, error) {
	logger := ctxlog.FromContext(ctx)
	st := e.state.Load()

	var rep Report
	ra, ok := st.graph.Lookup(u.Key())
	if !ok {
		logger.Debug("Ignoring update.", "update", u.String())
		rep.Ignored = true
		return rep, nil
	}

	for _, va := range ra.Downstream {
		v, err := e.propagate(st, u, va)
		if err != nil {
			if e.opts.FailFast {
				return rep, err
			}
			logger.Warn("Skipping virtual axis update.", "update", u.String(), "virtual_axis", va.Key().String(), "error", err)
			rep.Failures = append(rep.Failures, err)
			continue
		}
		logger.Debug("Calculated new value.", "update", u.String(), "virtual_axis", va.Key().String(), "value", v)
		rep.Written++
	}
	return rep, nil
}

func (e *Engine) propagate(st *state, u device.AxisUpdate, va *graph.VirtAxis) (int32, *AxisError) {
	b := expr.Bindings{u.Key(): u.Value}
	for _, dep := range va.Dependencies() {
		if _, ok := b[dep]; ok {
			continue
		}
		src, ok := e.sources[dep.Device]
		if !ok {
			return 0, &AxisError{Op: OpRead, VirtualAxis: va.Key(), Input: dep, Err: fmt.Errorf("device %q is not open", dep.Device)}
		}
		v, err := src.Read(dep.Axis)
		if err != nil {
			return 0, &AxisError{Op: OpRead, VirtualAxis: va.Key(), Input: dep, Err: err}
		}
		b[dep] = v
	}

	v, err := expr.Evaluate(va.Expr, b)
	if err != nil {
		return 0, &AxisError{Op: OpEval, VirtualAxis: va.Key(), Err: err}
	}
	if err := st.sinks[va.Device].Write(va.Axis, v); err != nil {
		return 0, &AxisError{Op: OpWrite, VirtualAxis: va.Key(), Err: err}
	}
	return v, nil
}
