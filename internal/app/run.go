package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/engine"
	"github.com/vk/axisflow/internal/graph"
)

// listenerGrace bounds the wait for listener workers after the devices are
// closed on shutdown.
const listenerGrace = 2 * time.Second

// Run opens the devices, builds the dependency graph and propagates updates
// until every physical device stream ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer()
	defer a.closeHealthcheckServer()
	defer a.closeDevices()

	if err := a.openPhysical(ctx); err != nil {
		return err
	}

	g, err := a.build(ctx, a.Model())
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	sinks, err := a.openVirtual(ctx, g)
	if err != nil {
		return err
	}

	eng, err := engine.New(g, a.sources, sinks, engine.Options{FailFast: a.config.FailFast})
	if err != nil {
		return err
	}
	q := engine.NewQueue()
	a.mu.Lock()
	a.engine, a.queue = eng, q
	a.mu.Unlock()

	a.logger.Info("🚀 Remapping started.",
		"physical_devices", len(a.sources),
		"physical_axes", len(g.RealAxes()),
		"virtual_axes", len(g.VirtualAxes()),
		"fail_fast", a.config.FailFast,
	)
	listeners := engine.Listen(ctx, a.sources, q)
	runErr := eng.Run(ctx, q)

	// Closing the physical devices ends the listeners.
	a.closeDevices()
	select {
	case <-listeners:
	case <-time.After(listenerGrace):
		a.logger.Warn("Listener workers did not stop in time.")
	}

	if errors.Is(runErr, context.Canceled) {
		a.logger.Info("Shutdown requested.")
		runErr = nil
	}
	if runErr != nil {
		return fmt.Errorf("propagation failed: %w", runErr)
	}
	a.logger.Info("🏁 Remapping stopped.")
	return nil
}

func (a *App) openPhysical(ctx context.Context) error {
	model := a.Model()
	for _, name := range config.SortedNames(model.PhysicalDevices) {
		src, err := a.devices.OpenPhysical(ctx, model.PhysicalDevices[name])
		if err != nil {
			return fmt.Errorf("failed to open physical device %q: %w", name, err)
		}
		a.mu.Lock()
		a.sources[name] = src
		if c, ok := src.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		a.mu.Unlock()
	}
	return nil
}

// build validates model against the opened physical devices.
func (a *App) build(ctx context.Context, model *config.Model) (*graph.Graph, error) {
	supporters := make(map[string]device.Supporter, len(a.sources))
	for name, src := range a.sources {
		supporters[name] = src
	}
	return graph.Build(ctx, supporters, model.VirtualDevices)
}

// openVirtual returns a sink for every virtual device of g, reusing sinks
// already open under the same name.
func (a *App) openVirtual(ctx context.Context, g *graph.Graph) (map[string]device.Sink, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]device.Sink, len(g.Devices()))
	for _, d := range g.Devices() {
		if s, ok := a.sinks[d.Name]; ok {
			out[d.Name] = s
			continue
		}
		s, err := a.devices.OpenVirtual(ctx, d.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to open virtual device %q: %w", d.Name, err)
		}
		a.sinks[d.Name] = s
		if c, ok := s.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		out[d.Name] = s
	}
	return out, nil
}

// closeDevices closes everything opened so far, physical devices first.
// It is safe to call more than once.
func (a *App) closeDevices() {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	for _, c := range closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("Failed to close device.", "error", err)
		}
	}
}
