//go:build linux

package uinput

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/evdev"
)

// Path is the uinput control node.
var Path = "/dev/uinput"

// Device is a kernel virtual joystick. It implements device.Sink.
type Device struct {
	name string
	axes map[axis.Axis]bool
	f    *os.File
	rc   syscall.RawConn
}

var _ device.Sink = (*Device)(nil)

// Create registers a virtual device exposing the axes of vd with their
// configured ranges.
func Create(ctx context.Context, vd *config.VirtualDevice) (*Device, error) {
	f, err := os.OpenFile(Path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("create virtual device %q: %w", vd.Name, err)
	}
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create virtual device %q: %w", vd.Name, err)
	}

	d := &Device{name: vd.Name, axes: make(map[axis.Axis]bool), f: f, rc: rc}
	if err := d.setup(vd); err != nil {
		f.Close()
		return nil, fmt.Errorf("create virtual device %q: %w", vd.Name, err)
	}

	ctxlog.FromContext(ctx).Info("Created virtual device.",
		"device", vd.Name,
		"display_name", vd.DisplayName,
		"id", fmt.Sprintf("%04x:%04x", vd.VendorID, vd.ProductID),
		"axes", len(vd.Axes),
	)
	return d, nil
}

func (d *Device) setup(vd *config.VirtualDevice) error {
	if err := evdev.IoctlValue(d.rc, uiSetEvBit, uintptr(evdev.EvAbs)); err != nil {
		return fmt.Errorf("UI_SET_EVBIT: %w", err)
	}
	for _, a := range axis.Sorted(vd.Axes) {
		if err := evdev.IoctlValue(d.rc, uiSetAbsBit, uintptr(a.Code())); err != nil {
			return fmt.Errorf("UI_SET_ABSBIT %s: %w", a, err)
		}
		d.axes[a] = true
	}
	if _, err := d.f.Write(newUserDev(vd).bytes()); err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}
	if err := evdev.IoctlValue(d.rc, uiDevCreate, 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

// Write emits the new value of a followed by a sync report.
func (d *Device) Write(a axis.Axis, v int32) error {
	if !d.axes[a] {
		return fmt.Errorf("write %s:%s: %w", d.name, a, device.ErrNotSupported)
	}
	if _, err := d.f.Write(axisEvents(a, v)); err != nil {
		return fmt.Errorf("write %s:%s: %w", d.name, a, err)
	}
	return nil
}

// Close destroys the virtual device.
func (d *Device) Close() error {
	derr := evdev.IoctlValue(d.rc, uiDevDestroy, 0)
	cerr := d.f.Close()
	if derr != nil {
		return fmt.Errorf("UI_DEV_DESTROY %s: %w", d.name, derr)
	}
	return cerr
}
