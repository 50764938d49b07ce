//go:build linux

package evdev

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"golang.org/x/sys/unix"
)

// Device is an opened event device. It implements device.Source; Read and
// NextEvent may be called concurrently.
type Device struct {
	name      string
	path      string
	f         *os.File
	rc        syscall.RawConn
	supported map[axis.Axis]bool

	mu      sync.Mutex // guards the fields below, used by NextEvent only
	pending []InputEvent
	queued  []device.Event
	filter  *eventFilter
	buf     []byte
}

var _ device.Source = (*Device)(nil)

// Open opens the event device at path and queries its absolute axes.
func Open(ctx context.Context, name, path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open physical device %q: %w", name, err)
	}
	rc, err := f.SyscallConn()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open physical device %q: %w", name, err)
	}

	d := &Device{name: name, path: path, f: f, rc: rc, buf: make([]byte, EventSize*64)}
	if err := d.querySupported(); err != nil {
		f.Close()
		return nil, fmt.Errorf("query axes of %q (%s): %w", name, path, err)
	}
	initial, err := d.snapshot()
	if err != nil {
		f.Close()
		return nil, err
	}
	d.filter = newEventFilter(initial)

	axes := make([]string, 0, len(d.supported))
	for _, a := range axis.All {
		if d.supported[a] {
			axes = append(axes, a.String())
		}
	}
	ctxlog.FromContext(ctx).Info("Opened physical device.", "device", name, "path", path, "axes", axes)
	return d, nil
}

func (d *Device) querySupported() error {
	bits := make([]byte, AbsCnt/8)
	if err := Ioctl(d.rc, eviocgbit(EvAbs, len(bits)), unsafe.Pointer(&bits[0])); err != nil {
		return err
	}
	d.supported = make(map[axis.Axis]bool)
	for _, a := range axis.All {
		if testBit(bits, a.Code()) {
			d.supported[a] = true
		}
	}
	return nil
}

// Name returns the configured device name.
func (d *Device) Name() string { return d.name }

func (d *Device) Supports(a axis.Axis) bool {
	return d.supported[a]
}

// Read returns the current value of a as tracked by the kernel.
func (d *Device) Read(a axis.Axis) (int32, error) {
	if !d.supported[a] {
		return 0, fmt.Errorf("read %s:%s: %w", d.name, a, device.ErrNotSupported)
	}
	var info AbsInfo
	if err := Ioctl(d.rc, eviocgabs(a.Code()), unsafe.Pointer(&info)); err != nil {
		return 0, fmt.Errorf("read %s:%s: %w", d.name, a, err)
	}
	return info.Value, nil
}

// NextEvent blocks until the next change of a known absolute axis. Other
// event types are skipped. When the kernel reports dropped events, the
// incomplete packet is discarded and every axis that changed meanwhile is
// reported from the current device state. It returns io.EOF once the device
// is removed or closed.
func (d *Device) NextEvent() (device.Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		if len(d.queued) > 0 {
			ev := d.queued[0]
			d.queued = d.queued[1:]
			return ev, nil
		}
		if len(d.pending) > 0 {
			raw := d.pending[0]
			d.pending = d.pending[1:]
			ev, ok, resync := d.filter.feed(raw)
			if resync {
				current, err := d.snapshot()
				if err != nil {
					return device.Event{}, err
				}
				d.queued = d.filter.resync(current)
			}
			if ok {
				return ev, nil
			}
			continue
		}

		n, err := d.f.Read(d.buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, unix.ENODEV) {
				return device.Event{}, io.EOF
			}
			return device.Event{}, fmt.Errorf("read events from %s: %w", d.path, err)
		}
		events, err := DecodeEvents(d.buf[:n])
		if err != nil {
			return device.Event{}, err
		}
		d.pending = events
	}
}

// snapshot reads the current value of every supported axis.
func (d *Device) snapshot() (map[axis.Axis]int32, error) {
	out := make(map[axis.Axis]int32, len(d.supported))
	for a := range d.supported {
		v, err := d.Read(a)
		if err != nil {
			return nil, err
		}
		out[a] = v
	}
	return out, nil
}

// Close releases the device and ends a blocked NextEvent.
func (d *Device) Close() error {
	return d.f.Close()
}
