//go:build linux

package evdev

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/device"
)

func TestIoctlNumbers(t *testing.T) {
	testCases := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"EVIOCGABS(ABS_X)", eviocgabs(axis.X.Code()), 0x80184540},
		{"EVIOCGABS(ABS_BRAKE)", eviocgabs(axis.Brake.Code()), 0x8018454a},
		{"EVIOCGBIT(EV_ABS, 8)", eviocgbit(EvAbs, 8), 0x80084523},
		{"UI_DEV_CREATE", IO('U', 1), 0x5501},
		{"UI_SET_ABSBIT", IOW('U', 103, 4), 0x40045567},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got, "got %#x", tc.got)
		})
	}
}

func TestEventsRoundTrip(t *testing.T) {
	in := []InputEvent{
		{Type: EvAbs, Code: axis.Throttle.Code(), Value: -1234},
		{Type: EvSyn, Code: SynReport},
	}
	b := EncodeEvents(in...)
	require.Len(t, b, 2*EventSize)

	out, err := DecodeEvents(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEventFilter_ForwardsAxisEvents(t *testing.T) {
	f := newEventFilter(nil)

	ev, ok, resync := f.feed(InputEvent{Type: EvAbs, Code: axis.Gas.Code(), Value: 40})
	assert.True(t, ok)
	assert.False(t, resync)
	assert.Equal(t, device.Event{Axis: axis.Gas, Value: 40}, ev)

	for _, raw := range []InputEvent{
		{Type: EvSyn, Code: SynReport},
		{Type: EvAbs, Code: 0x18, Value: 9}, // ABS_PRESSURE
		{Type: 0x01, Code: 0x120, Value: 1}, // EV_KEY BTN_TRIGGER
	} {
		_, ok, resync := f.feed(raw)
		assert.False(t, ok, "%+v", raw)
		assert.False(t, resync, "%+v", raw)
	}
}

func TestEventFilter_RecoversFromDroppedEvents(t *testing.T) {
	f := newEventFilter(map[axis.Axis]int32{axis.X: 0, axis.Y: 0, axis.Brake: 0})

	_, ok, _ := f.feed(InputEvent{Type: EvAbs, Code: axis.X.Code(), Value: 10})
	require.True(t, ok)

	// The packet cut short by the overrun is discarded up to its SYN_REPORT.
	_, ok, resync := f.feed(InputEvent{Type: EvSyn, Code: SynDropped})
	assert.False(t, ok)
	assert.False(t, resync)
	_, ok, resync = f.feed(InputEvent{Type: EvAbs, Code: axis.Y.Code(), Value: 77})
	assert.False(t, ok, "events after SYN_DROPPED are discarded")
	assert.False(t, resync)
	_, ok, resync = f.feed(InputEvent{Type: EvSyn, Code: SynReport})
	assert.False(t, ok)
	require.True(t, resync)

	// Only axes whose state differs from what was last forwarded are reported.
	got := f.resync(map[axis.Axis]int32{axis.X: 10, axis.Y: 80, axis.Brake: -5})
	assert.Equal(t, []device.Event{
		{Axis: axis.Y, Value: 80},
		{Axis: axis.Brake, Value: -5},
	}, got)
	assert.Empty(t, f.resync(map[axis.Axis]int32{axis.X: 10, axis.Y: 80, axis.Brake: -5}))

	ev, ok, resync := f.feed(InputEvent{Type: EvAbs, Code: axis.X.Code(), Value: 11})
	assert.True(t, ok)
	assert.False(t, resync)
	assert.Equal(t, device.Event{Axis: axis.X, Value: 11}, ev)
}

func TestEventFilter_ResyncReportsUnseenAxes(t *testing.T) {
	f := newEventFilter(nil)
	assert.Equal(t, []device.Event{{Axis: axis.Z, Value: 0}}, f.resync(map[axis.Axis]int32{axis.Z: 0}))
}

func TestDecodeEvents_Partial(t *testing.T) {
	b := EncodeEvents(InputEvent{Type: EvAbs})
	_, err := DecodeEvents(b[:EventSize-1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short input_event read")
}

func TestTestBit(t *testing.T) {
	bits := []byte{0b0000_0101, 0b0000_0100}
	assert.True(t, testBit(bits, 0))
	assert.False(t, testBit(bits, 1))
	assert.True(t, testBit(bits, 2))
	assert.True(t, testBit(bits, 10))
	assert.False(t, testBit(bits, 63), "bits beyond the map are unset")
}

func writeSysfsDevice(t *testing.T, root, event, vendor, product string) {
	t.Helper()
	dir := filepath.Join(root, "class", "input", event, "device", "id")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor"), []byte(vendor+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product"), []byte(product+"\n"), 0644))
}

func TestFindByID(t *testing.T) {
	root := t.TempDir()
	writeSysfsDevice(t, root, "event3", "046d", "c215")
	writeSysfsDevice(t, root, "event7", "06a3", "0763")
	writeSysfsDevice(t, root, "event9", "06a3", "0763")
	writeSysfsDevice(t, root, "event1", "zzzz", "0763")

	path, err := findByID(root, "/dev/input", 0x06a3, 0x0763)
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event7", path)

	_, err = findByID(root, "/dev/input", 0x1234, 0x5678)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input device with id 1234:5678")
}

func TestResolve_Path(t *testing.T) {
	path, err := Resolve(config.Matcher{Path: "/dev/input/event5"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event5", path)
}
