//go:build linux

package uinput

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/evdev"
)

const (
	maxNameSize = 80
	busUSB      = 0x03
)

var (
	uiDevCreate  = evdev.IO('U', 1)
	uiDevDestroy = evdev.IO('U', 2)
	uiSetEvBit   = evdev.IOW('U', 100, uint32(unsafe.Sizeof(int32(0))))
	uiSetAbsBit  = evdev.IOW('U', 103, uint32(unsafe.Sizeof(int32(0))))
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// userDev is struct uinput_user_dev, written once before UI_DEV_CREATE.
type userDev struct {
	Name       [maxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [evdev.AbsCnt]int32
	Absmin     [evdev.AbsCnt]int32
	Absfuzz    [evdev.AbsCnt]int32
	Absflat    [evdev.AbsCnt]int32
}

func newUserDev(vd *config.VirtualDevice) userDev {
	var u userDev
	// The kernel requires a NUL terminator.
	copy(u.Name[:maxNameSize-1], vd.DisplayName)
	u.ID = inputID{Bustype: busUSB, Vendor: vd.VendorID, Product: vd.ProductID, Version: 1}
	for a, ac := range vd.Axes {
		u.Absmin[a.Code()] = ac.Min
		u.Absmax[a.Code()] = ac.Max
	}
	return u
}

func (u userDev) bytes() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.NativeEndian, u)
	return buf.Bytes()
}

// axisEvents is the write for one axis value: the change and a report.
func axisEvents(a axis.Axis, v int32) []byte {
	return evdev.EncodeEvents(
		evdev.InputEvent{Type: evdev.EvAbs, Code: a.Code(), Value: v},
		evdev.InputEvent{Type: evdev.EvSyn, Code: evdev.SynReport},
	)
}
