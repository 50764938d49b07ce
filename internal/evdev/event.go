//go:build linux

package evdev

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/device"
	"golang.org/x/sys/unix"
)

// Event types and codes used by axisflow.
const (
	EvSyn     uint16 = 0x00
	EvAbs     uint16 = 0x03
	SynReport uint16 = 0x00
	// SynDropped marks a kernel buffer overrun: events up to the next
	// SynReport are incomplete and must be discarded.
	SynDropped uint16 = 0x03

	// AbsCnt is the size of the ABS code space (ABS_MAX + 1).
	AbsCnt = 0x40
)

// InputEvent is struct input_event in native layout.
type InputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EventSize is the size of one input_event on this platform.
const EventSize = int(unsafe.Sizeof(InputEvent{}))

// AbsInfo is struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// DecodeEvents splits b into whole input_event records. Trailing bytes that
// do not form a full record are an error.
func DecodeEvents(b []byte) ([]InputEvent, error) {
	if len(b)%EventSize != 0 {
		return nil, fmt.Errorf("short input_event read: %d bytes is not a multiple of %d", len(b), EventSize)
	}
	out := make([]InputEvent, len(b)/EventSize)
	if err := binary.Read(bytes.NewReader(b), binary.NativeEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeEvents serializes events for a write to a uinput device.
func EncodeEvents(events ...InputEvent) []byte {
	var buf bytes.Buffer
	buf.Grow(len(events) * EventSize)
	// Writes to a bytes.Buffer of fixed-size values cannot fail.
	_ = binary.Write(&buf, binary.NativeEndian, events)
	return buf.Bytes()
}

// testBit reports whether bit n is set in a kernel bitmap.
func testBit(bits []byte, n uint16) bool {
	i := int(n / 8)
	return i < len(bits) && bits[i]&(1<<(n%8)) != 0
}

// eventFilter turns raw records into axis events. After a SynDropped it
// discards records up to the next SynReport and asks for a resync, after
// which the device state is compared with the last values forwarded.
type eventFilter struct {
	dropping bool
	last     map[axis.Axis]int32
}

func newEventFilter(initial map[axis.Axis]int32) *eventFilter {
	f := &eventFilter{last: make(map[axis.Axis]int32, len(initial))}
	for a, v := range initial {
		f.last[a] = v
	}
	return f
}

// feed consumes one record. ok is set when ev is an axis event to forward;
// resync is set when the caller must read the device state and pass it to
// resync.
func (f *eventFilter) feed(raw InputEvent) (ev device.Event, ok, resync bool) {
	if f.dropping {
		if raw.Type == EvSyn && raw.Code == SynReport {
			f.dropping = false
			return device.Event{}, false, true
		}
		return device.Event{}, false, false
	}
	if raw.Type == EvSyn && raw.Code == SynDropped {
		f.dropping = true
		return device.Event{}, false, false
	}
	if raw.Type != EvAbs {
		return device.Event{}, false, false
	}
	a, known := axis.FromCode(raw.Code)
	if !known {
		return device.Event{}, false, false
	}
	f.last[a] = raw.Value
	return device.Event{Axis: a, Value: raw.Value}, true, false
}

// resync returns, in axis order, an event for every axis whose current
// value differs from the last one forwarded.
func (f *eventFilter) resync(current map[axis.Axis]int32) []device.Event {
	var out []device.Event
	for _, a := range axis.Sorted(current) {
		v := current[a]
		if last, seen := f.last[a]; seen && last == v {
			continue
		}
		f.last[a] = v
		out = append(out, device.Event{Axis: a, Value: v})
	}
	return out
}
