//go:build linux

package uinput

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/evdev"
	"github.com/vk/axisflow/internal/expr"
)

func TestIoctlNumbers(t *testing.T) {
	assert.Equal(t, uintptr(0x5501), uiDevCreate)
	assert.Equal(t, uintptr(0x5502), uiDevDestroy)
	assert.Equal(t, uintptr(0x40045564), uiSetEvBit)
	assert.Equal(t, uintptr(0x40045567), uiSetAbsBit)
}

func TestNewUserDev(t *testing.T) {
	vd := &config.VirtualDevice{
		Name:        "combined",
		DisplayName: "Combined Controls",
		VendorID:    0x1209,
		ProductID:   0x0001,
		Axes: map[axis.Axis]*config.AxisConfig{
			axis.X:      {Min: -32768, Max: 32767, Expr: expr.MustParse("a:X")},
			axis.Rudder: {Min: -255, Max: 255, Expr: expr.MustParse("a:Y")},
		},
	}

	u := newUserDev(vd)
	assert.Equal(t, "Combined Controls", string(u.Name[:len("Combined Controls")]))
	assert.Equal(t, byte(0), u.Name[len("Combined Controls")])
	assert.Equal(t, inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0x0001, Version: 1}, u.ID)
	assert.Equal(t, int32(-32768), u.Absmin[axis.X.Code()])
	assert.Equal(t, int32(32767), u.Absmax[axis.X.Code()])
	assert.Equal(t, int32(255), u.Absmax[axis.Rudder.Code()])
	assert.Equal(t, int32(0), u.Absmax[axis.Y.Code()])

	assert.Len(t, u.bytes(), int(unsafe.Sizeof(userDev{})))
}

func TestNewUserDev_TruncatesLongNames(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'n'
	}
	u := newUserDev(&config.VirtualDevice{DisplayName: string(long)})
	assert.Equal(t, byte(0), u.Name[maxNameSize-1])
}

func TestAxisEvents(t *testing.T) {
	events, err := evdev.DecodeEvents(axisEvents(axis.Gas, 77))
	require.NoError(t, err)
	assert.Equal(t, []evdev.InputEvent{
		{Type: evdev.EvAbs, Code: axis.Gas.Code(), Value: 77},
		{Type: evdev.EvSyn, Code: evdev.SynReport},
	}, events)
}
