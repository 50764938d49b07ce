package testutil

import (
	"fmt"
	"io"
	"sync"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/device"
)

// FakeSource is an in-memory physical device. Values are set with Set or
// Emit; Emit also queues an event for NextEvent.
type FakeSource struct {
	mu        sync.Mutex
	supported map[axis.Axis]bool
	values    map[axis.Axis]int32
	readErrs  map[axis.Axis]error
	reads     []axis.Axis
	events    chan device.Event
	closeOnce sync.Once
}

// NewFakeSource creates a source supporting the given axes, all at value 0.
func NewFakeSource(axes ...axis.Axis) *FakeSource {
	f := &FakeSource{
		supported: make(map[axis.Axis]bool),
		values:    make(map[axis.Axis]int32),
		readErrs:  make(map[axis.Axis]error),
		events:    make(chan device.Event, 1024),
	}
	for _, a := range axes {
		f.supported[a] = true
	}
	return f
}

func (f *FakeSource) Supports(a axis.Axis) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.supported[a]
}

func (f *FakeSource) Read(a axis.Axis) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, a)
	if err := f.readErrs[a]; err != nil {
		return 0, err
	}
	if !f.supported[a] {
		return 0, fmt.Errorf("fake read %s: %w", a, device.ErrNotSupported)
	}
	return f.values[a], nil
}

// NextEvent returns queued events and io.EOF after Close.
func (f *FakeSource) NextEvent() (device.Event, error) {
	ev, ok := <-f.events
	if !ok {
		return device.Event{}, io.EOF
	}
	return ev, nil
}

// Set changes the current value of a without emitting an event.
func (f *FakeSource) Set(a axis.Axis, v int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[a] = v
}

// Emit changes the current value of a and queues an event for it.
func (f *FakeSource) Emit(a axis.Axis, v int32) {
	f.Set(a, v)
	f.events <- device.Event{Axis: a, Value: v}
}

// FailReads makes every future Read of a return err.
func (f *FakeSource) FailReads(a axis.Axis, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErrs[a] = err
}

// Reads returns the axes read so far, in order.
func (f *FakeSource) Reads() []axis.Axis {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]axis.Axis(nil), f.reads...)
}

// Close ends the event stream.
func (f *FakeSource) Close() error {
	f.closeOnce.Do(func() { close(f.events) })
	return nil
}

// Write is one value written to a RecordingSink.
type Write struct {
	Axis  axis.Axis
	Value int32
}

// RecordingSink is an in-memory virtual device recording every write.
type RecordingSink struct {
	mu       sync.Mutex
	writes   []Write
	failures map[axis.Axis]error
	onWrite  func(Write)
}

// NewRecordingSink creates an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{failures: make(map[axis.Axis]error)}
}

func (s *RecordingSink) Write(a axis.Axis, v int32) error {
	s.mu.Lock()
	if err := s.failures[a]; err != nil {
		s.mu.Unlock()
		return err
	}
	w := Write{Axis: a, Value: v}
	s.writes = append(s.writes, w)
	hook := s.onWrite
	s.mu.Unlock()

	if hook != nil {
		hook(w)
	}
	return nil
}

// FailWrites makes every future write to a return err.
func (s *RecordingSink) FailWrites(a axis.Axis, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[a] = err
}

// OnWrite registers a hook called after each successful write.
func (s *RecordingSink) OnWrite(f func(Write)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWrite = f
}

// Writes returns all recorded writes, in order.
func (s *RecordingSink) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Last returns the most recent value written to a.
func (s *RecordingSink) Last(a axis.Axis) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.writes) - 1; i >= 0; i-- {
		if s.writes[i].Axis == a {
			return s.writes[i].Value, true
		}
	}
	return 0, false
}
