//go:build !linux

package evdev

import (
	"context"
	"errors"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/device"
)

// ErrUnsupportedPlatform is returned where event devices do not exist.
var ErrUnsupportedPlatform = errors.New("evdev: physical devices are only supported on linux")

// Device is unavailable on this platform.
type Device struct{}

func Resolve(m config.Matcher) (string, error) {
	return "", ErrUnsupportedPlatform
}

func Open(ctx context.Context, name, path string) (*Device, error) {
	return nil, ErrUnsupportedPlatform
}

func (d *Device) Name() string { return "" }
func (d *Device) Supports(a axis.Axis) bool { return false }
func (d *Device) Read(a axis.Axis) (int32, error) { return 0, ErrUnsupportedPlatform }
func (d *Device) NextEvent() (device.Event, error) { return device.Event{}, ErrUnsupportedPlatform }
func (d *Device) Close() error { return nil }
