package graph

import (
	"fmt"

	"github.com/vk/axisflow/internal/axis"
)

// UndefinedDeviceError reports an expression naming a device that is not a
// configured physical device.
type UndefinedDeviceError struct {
	Device      string
	VirtualAxis axis.Key
}

func (e *UndefinedDeviceError) Error() string {
	return fmt.Sprintf("virtual axis %s: device %q is not defined", e.VirtualAxis, e.Device)
}

// UnsupportedAxisError reports an expression reading an axis its physical
// device does not have.
type UnsupportedAxisError struct {
	Device      string
	Axis        axis.Axis
	VirtualAxis axis.Key
}

func (e *UnsupportedAxisError) Error() string {
	return fmt.Sprintf("virtual axis %s: device %q does not support axis %s", e.VirtualAxis, e.Device, e.Axis)
}
