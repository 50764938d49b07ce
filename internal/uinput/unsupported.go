//go:build !linux

package uinput

import (
	"context"
	"errors"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
)

// ErrUnsupportedPlatform is returned where uinput does not exist.
var ErrUnsupportedPlatform = errors.New("uinput: virtual devices are only supported on linux")

// Device is unavailable on this platform.
type Device struct{}

func Create(ctx context.Context, vd *config.VirtualDevice) (*Device, error) {
	return nil, ErrUnsupportedPlatform
}

func (d *Device) Write(a axis.Axis, v int32) error { return ErrUnsupportedPlatform }
func (d *Device) Close() error { return nil }
