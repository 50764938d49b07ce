package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/graph"
	"github.com/vk/axisflow/internal/hclconfig"
	"github.com/vk/axisflow/internal/yamlconfig"
)

// LoaderFor picks the configuration loader by file extension.
func LoaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclconfig.NewLoader(), nil
	case ".yml", ".yaml":
		return yamlconfig.NewLoader(), nil
	}
	return nil, fmt.Errorf("unsupported config file type %q: expected .hcl, .yml or .yaml", path)
}

// LoadModel reads and validates the configuration file at path.
func LoadModel(ctx context.Context, path string) (*config.Model, error) {
	loader, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	model, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Configuration loaded and translated into unified model.",
		"path", path,
		"physical_devices", len(model.PhysicalDevices),
		"virtual_devices", len(model.VirtualDevices),
	)
	return model, nil
}

// nameOnly accepts every axis. It stands in for physical devices that are
// not opened, so only device names are checked.
type nameOnly struct{}

func (nameOnly) Supports(axis.Axis) bool { return true }

// BuildOffline builds the graph of model without opening any device. Axis
// support cannot be checked this way; references to undefined devices are.
func BuildOffline(ctx context.Context, model *config.Model) (*graph.Graph, error) {
	supporters := make(map[string]device.Supporter, len(model.PhysicalDevices))
	for name := range model.PhysicalDevices {
		supporters[name] = nameOnly{}
	}
	return graph.Build(ctx, supporters, model.VirtualDevices)
}
