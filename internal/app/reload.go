package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
)

// ErrNotRunning is returned by Reload before Run has started the engine.
var ErrNotRunning = errors.New("app is not running")

// Reload re-reads the configuration file and swaps the resulting graph into
// the running engine. Physical devices are not reopened, so expressions may
// only reference devices that were opened at start. New virtual devices
// are opened; existing ones keep the axes they were created with. On error
// the current graph stays in effect.
func (a *App) Reload(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.mu.Lock()
	eng := a.engine
	a.mu.Unlock()
	if eng == nil {
		return ErrNotRunning
	}

	model, err := LoadModel(ctx, a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	for _, name := range config.SortedNames(model.PhysicalDevices) {
		if _, open := a.sources[name]; !open {
			a.logger.Warn("Physical device added by reload is not opened until restart.", "device", name)
		}
	}

	g, err := a.build(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to rebuild dependency graph: %w", err)
	}
	sinks, err := a.openVirtual(ctx, g)
	if err != nil {
		return err
	}
	if err := eng.Swap(g, sinks); err != nil {
		return err
	}

	a.mu.Lock()
	a.model = model
	a.mu.Unlock()
	a.logger.Info("Configuration reloaded.", "physical_axes", len(g.RealAxes()), "virtual_axes", len(g.VirtualAxes()))
	return nil
}
