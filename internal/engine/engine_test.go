package engine

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/expr"
	"github.com/vk/axisflow/internal/graph"
	"github.com/vk/axisflow/internal/testutil"
)

type fixture struct {
	ctx    context.Context
	logs   *testutil.SafeBuffer
	stick  *testutil.FakeSource
	pedals *testutil.FakeSource
	out    *testutil.RecordingSink
	engine *Engine
}

func (f *fixture) sources() map[string]device.Source {
	return map[string]device.Source{"stick": f.stick, "pedals": f.pedals}
}

func buildGraph(t *testing.T, ctx context.Context, sources map[string]device.Source, axes map[axis.Axis]string) *graph.Graph {
	t.Helper()
	vd := &config.VirtualDevice{Name: "out", Axes: make(map[axis.Axis]*config.AxisConfig)}
	for a, src := range axes {
		vd.Axes[a] = &config.AxisConfig{Min: -1000, Max: 1000, Expr: expr.MustParse(src)}
	}
	vd.ApplyDefaults()

	supporters := make(map[string]device.Supporter, len(sources))
	for name, s := range sources {
		supporters[name] = s
	}
	g, err := graph.Build(ctx, supporters, map[string]*config.VirtualDevice{"out": vd})
	require.NoError(t, err)
	return g
}

func newFixture(t *testing.T, opts Options, axes map[axis.Axis]string) *fixture {
	t.Helper()
	f := &fixture{
		logs:   &testutil.SafeBuffer{},
		stick:  testutil.NewFakeSource(axis.X, axis.Y),
		pedals: testutil.NewFakeSource(axis.Gas, axis.Brake),
		out:    testutil.NewRecordingSink(),
	}
	f.ctx = ctxlog.WithLogger(context.Background(), testutil.NewLogger(f.logs))

	g := buildGraph(t, f.ctx, f.sources(), axes)
	e, err := New(g, f.sources(), map[string]device.Sink{"out": f.out}, opts)
	require.NoError(t, err)
	f.engine = e
	return f
}

func TestHandle_UsesTriggeringValue(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X * 2"})
	f.stick.Set(axis.X, 1)

	rep, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 50})
	require.NoError(t, err)
	assert.Equal(t, Report{Written: 1}, rep)

	v, ok := f.out.Last(axis.X)
	require.True(t, ok)
	assert.Equal(t, int32(100), v)
	assert.Empty(t, f.stick.Reads(), "the triggering axis is bound, not read")
}

func TestHandle_ReadsOtherDependenciesOnDemand(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.Rudder: "pedals:Brake - pedals:Gas"})
	f.pedals.Set(axis.Brake, 30)

	_, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "pedals", Axis: axis.Gas, Value: 10})
	require.NoError(t, err)

	v, _ := f.out.Last(axis.Rudder)
	assert.Equal(t, int32(20), v)
	assert.Equal(t, []axis.Axis{axis.Brake}, f.pedals.Reads())
}

func TestHandle_FanOutReadsAtEachComputation(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{
		axis.X: "stick:X + stick:Y",
		axis.Y: "stick:X - stick:Y",
	})
	f.stick.Set(axis.Y, 1)

	// The first downstream write moves stick:Y. The second computation must
	// observe the new value, not one cached from the first.
	f.out.OnWrite(func(w testutil.Write) {
		if w.Axis == axis.X {
			f.stick.Set(axis.Y, 7)
		}
	})

	rep, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Written)

	assert.Equal(t, []testutil.Write{
		{Axis: axis.X, Value: 11},
		{Axis: axis.Y, Value: 3},
	}, f.out.Writes())
	assert.Equal(t, []axis.Axis{axis.Y, axis.Y}, f.stick.Reads())
}

func TestHandle_Ignored(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X"})

	rep, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "pedals", Axis: axis.Gas, Value: 5})
	require.NoError(t, err)
	assert.True(t, rep.Ignored)
	assert.Empty(t, f.out.Writes())
	assert.Contains(t, f.logs.String(), "Ignoring update.")
}

func TestHandle_IsolatesFailures(t *testing.T) {
	injected := errors.New("device unplugged")
	testCases := []struct {
		name   string
		axes   map[axis.Axis]string
		setup  func(f *fixture)
		wantOp Op
		wantIs error
	}{
		{
			name:   "read failure",
			axes:   map[axis.Axis]string{axis.X: "stick:X + pedals:Gas", axis.Y: "stick:X"},
			setup:  func(f *fixture) { f.pedals.FailReads(axis.Gas, injected) },
			wantOp: OpRead,
			wantIs: injected,
		},
		{
			name:   "division by zero",
			axes:   map[axis.Axis]string{axis.X: "100 / stick:X", axis.Y: "stick:X"},
			wantOp: OpEval,
			wantIs: expr.ErrDivisionByZero,
		},
		{
			name:   "write failure",
			axes:   map[axis.Axis]string{axis.X: "stick:X", axis.Y: "stick:X"},
			setup:  func(f *fixture) { f.out.FailWrites(axis.X, injected) },
			wantOp: OpWrite,
			wantIs: injected,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Options{}, tc.axes)
			if tc.setup != nil {
				tc.setup(f)
			}

			rep, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 0})
			require.NoError(t, err)
			assert.Equal(t, 1, rep.Written, "the healthy axis is still written")
			require.Len(t, rep.Failures, 1)

			fail := rep.Failures[0]
			assert.Equal(t, tc.wantOp, fail.Op)
			assert.Equal(t, axis.K("out", axis.X), fail.VirtualAxis)
			assert.ErrorIs(t, fail, tc.wantIs)

			v, ok := f.out.Last(axis.Y)
			require.True(t, ok)
			assert.Equal(t, int32(0), v)
			assert.Contains(t, f.logs.String(), "Skipping virtual axis update.")
		})
	}
}

func TestHandle_FailFast(t *testing.T) {
	f := newFixture(t, Options{FailFast: true}, map[axis.Axis]string{
		axis.X: "100 / stick:X",
		axis.Y: "stick:X",
	})

	_, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrDivisionByZero)
	var aerr *AxisError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, OpEval, aerr.Op)
	assert.Empty(t, f.out.Writes(), "later axes are not processed")
}

func TestNew_MissingSink(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X"})
	_, err := New(f.engine.Graph(), f.sources(), map[string]device.Sink{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no sink for virtual device "out"`)
}

func TestSwap(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X"})

	next := buildGraph(t, f.ctx, f.sources(), map[axis.Axis]string{axis.X: "stick:X + 1000"})
	replacement := testutil.NewRecordingSink()
	require.NoError(t, f.engine.Swap(next, map[string]device.Sink{"out": replacement}))
	assert.Same(t, next, f.engine.Graph())

	_, err := f.engine.Handle(f.ctx, device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 1})
	require.NoError(t, err)
	assert.Empty(t, f.out.Writes())
	v, _ := replacement.Last(axis.X)
	assert.Equal(t, int32(1001), v)

	require.Error(t, f.engine.Swap(next, nil), "a failed swap keeps the current graph")
	assert.Same(t, next, f.engine.Graph())
}

func TestRun_ProcessesInArrivalOrder(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X"})
	q := NewQueue()
	for i := int32(1); i <= 100; i++ {
		q.Push(device.AxisUpdate{Device: "stick", Axis: axis.X, Value: i})
	}
	q.Close()

	require.NoError(t, f.engine.Run(f.ctx, q))

	writes := f.out.Writes()
	require.Len(t, writes, 100)
	for i, w := range writes {
		assert.Equal(t, int32(i+1), w.Value)
	}
}

func TestRun_FailFastStops(t *testing.T) {
	f := newFixture(t, Options{FailFast: true}, map[axis.Axis]string{axis.X: "100 / stick:X"})
	q := NewQueue()
	q.Push(device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 0})
	q.Push(device.AxisUpdate{Device: "stick", Axis: axis.X, Value: 5})

	err := f.engine.Run(f.ctx, q)
	assert.ErrorIs(t, err, expr.ErrDivisionByZero)
	assert.Equal(t, 1, q.Len(), "the update after the failure is not consumed")
}

func TestRun_ContextCancelled(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{axis.X: "stick:X"})
	ctx, cancel := context.WithTimeout(f.ctx, 20*time.Millisecond)
	defer cancel()

	err := f.engine.Run(ctx, NewQueue())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListenAndRun_EndToEnd(t *testing.T) {
	f := newFixture(t, Options{}, map[axis.Axis]string{
		axis.X:      "stick:X",
		axis.Rudder: "pedals:Brake - pedals:Gas",
	})
	q := NewQueue()
	done := Listen(f.ctx, f.sources(), q)

	f.stick.Emit(axis.X, 42)
	f.pedals.Emit(axis.Brake, 9)
	f.stick.Close()
	f.pedals.Close()

	require.NoError(t, f.engine.Run(f.ctx, q))
	<-done

	v, ok := f.out.Last(axis.X)
	require.True(t, ok)
	assert.Equal(t, int32(42), v)
	v, ok = f.out.Last(axis.Rudder)
	require.True(t, ok)
	assert.Equal(t, int32(9), v)
	assert.Equal(t, 2, bytes.Count([]byte(f.logs.String()), []byte("Device event stream ended.")))
}
