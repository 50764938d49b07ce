package device

import (
	"errors"
	"fmt"

	"github.com/vk/axisflow/internal/axis"
)

// ErrNotSupported is returned by Read for an axis the device does not expose.
var ErrNotSupported = errors.New("axis not supported by device")

// Event is one absolute-axis change reported by a physical device.
type Event struct {
	Axis  axis.Axis
	Value int32
}

// AxisUpdate is an Event tagged with the configured name of its device. It
// is the unit carried from listener workers to the engine.
type AxisUpdate struct {
	Device string
	Axis   axis.Axis
	Value  int32
}

// Key returns the (device, axis) pair the update refers to.
func (u AxisUpdate) Key() axis.Key {
	return axis.Key{Device: u.Device, Axis: u.Axis}
}

func (u AxisUpdate) String() string {
	return fmt.Sprintf("%s=%d", u.Key(), u.Value)
}

// Supporter answers capability queries. It is all the graph builder needs.
type Supporter interface {
	Supports(a axis.Axis) bool
}

// Source is a physical device. Its listener blocks in NextEvent while the
// engine calls Read for other updates, so implementations must be safe for
// concurrent use and Read must not wait for NextEvent.
type Source interface {
	Supporter
	// Read returns the current value of an axis, or ErrNotSupported.
	Read(a axis.Axis) (int32, error)
	// NextEvent blocks until the next axis change. It returns io.EOF once
	// the device is gone and no further events will arrive.
	NextEvent() (Event, error)
}

// Sink is a virtual device.
type Sink interface {
	Write(a axis.Axis, value int32) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a axis.Axis, value int32) error

// Write calls f(a, value).
func (f SinkFunc) Write(a axis.Axis, value int32) error {
	return f(a, value)
}
