package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/testutil"
)

// FakeDevices serves in-memory devices. Physical devices must be registered
// in Sources; a RecordingSink is created for every virtual device opened.
type FakeDevices struct {
	Sources map[string]*testutil.FakeSource

	mu    sync.Mutex
	sinks map[string]*testutil.RecordingSink
}

// NewFakeDevices creates a FakeDevices with the given physical devices.
func NewFakeDevices(sources map[string]*testutil.FakeSource) *FakeDevices {
	return &FakeDevices{Sources: sources, sinks: make(map[string]*testutil.RecordingSink)}
}

func (f *FakeDevices) OpenPhysical(ctx context.Context, p *config.PhysicalDevice) (device.Source, error) {
	src, ok := f.Sources[p.Name]
	if !ok {
		return nil, fmt.Errorf("no fake device for %s", p.Matcher)
	}
	return src, nil
}

func (f *FakeDevices) OpenVirtual(ctx context.Context, v *config.VirtualDevice) (device.Sink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := testutil.NewRecordingSink()
	f.sinks[v.Name] = s
	return s, nil
}

// Sink returns the sink opened for the virtual device name, or nil.
func (f *FakeDevices) Sink(name string) *testutil.RecordingSink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sinks[name]
}

// SetupAppTest creates a new app instance for system testing.
func SetupAppTest(t *testing.T, cfg *Config, devices Devices) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(logBuffer, cfg, devices)

	t.Cleanup(func() {
		if os.Getenv("AXISFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
