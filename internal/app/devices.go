package app

import (
	"context"
	"fmt"

	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/evdev"
	"github.com/vk/axisflow/internal/sinks"
	"github.com/vk/axisflow/internal/uinput"
)

// Devices opens the devices a configuration names. Returned values that
// implement io.Closer are closed when the App stops.
type Devices interface {
	OpenPhysical(ctx context.Context, p *config.PhysicalDevice) (device.Source, error)
	OpenVirtual(ctx context.Context, v *config.VirtualDevice) (device.Sink, error)
}

// SystemDevices opens event devices for physical inputs and picks the
// virtual device implementation from the configured backend.
type SystemDevices struct{}

func (SystemDevices) OpenPhysical(ctx context.Context, p *config.PhysicalDevice) (device.Source, error) {
	path, err := evdev.Resolve(p.Matcher)
	if err != nil {
		return nil, fmt.Errorf("physical device %q: %w", p.Name, err)
	}
	d, err := evdev.Open(ctx, p.Name, path)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (SystemDevices) OpenVirtual(ctx context.Context, v *config.VirtualDevice) (device.Sink, error) {
	switch v.Backend {
	case config.BackendUInput:
		d, err := uinput.Create(ctx, v)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.BackendPrint:
		return sinks.NewPrint(ctx, v.Name), nil
	case config.BackendSocketIO:
		s, err := sinks.DialSocketIO(ctx, v.Name, v.SocketIO)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("virtual device %q: unknown backend %q", v.Name, v.Backend)
}
