package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/engine"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	ctx     context.Context
	config  *Config
	devices Devices

	mu         sync.Mutex
	model      *config.Model
	sources    map[string]device.Source
	sinks      map[string]device.Sink
	closers    []io.Closer
	engine     *engine.Engine
	queue      *engine.Queue
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger and a loaded, validated configuration. A nil
// devices opens real devices through SystemDevices.
func NewApp(outW io.Writer, cfg *Config, devices Devices) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if devices == nil {
		devices = SystemDevices{}
	}

	model, err := LoadModel(ctx, cfg.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	return &App{
		outW:    outW,
		logger:  logger,
		ctx:     ctx,
		config:  cfg,
		devices: devices,
		model:   model,
		sources: make(map[string]device.Source),
		sinks:   make(map[string]device.Sink),
	}
}

// Model returns the configuration currently in effect.
func (a *App) Model() *config.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

// Backlog returns the number of updates waiting for the engine.
func (a *App) Backlog() int {
	a.mu.Lock()
	q := a.queue
	a.mu.Unlock()
	if q == nil {
		return 0
	}
	return q.Len()
}
