package sinks

import (
	"context"
	"log/slog"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/ctxlog"
)

// Print logs every write at info level.
type Print struct {
	logger *slog.Logger
}

// NewPrint creates a print sink for the virtual device name.
func NewPrint(ctx context.Context, name string) *Print {
	logger := ctxlog.FromContext(ctx).With("sink", "print", "device", name)
	logger.Info("Created print device.")
	return &Print{logger: logger}
}

func (p *Print) Write(a axis.Axis, v int32) error {
	p.logger.Info("Virtual axis write.", "axis", a.String(), "value", v)
	return nil
}
