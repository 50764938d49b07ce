// Package yamlconfig provides the YAML implementation of config.Loader,
// reading the real_devices / virt_devices layout:
//
//	real_devices:
//	  stick: /dev/input/event5
//	  pedals: {vendor_id: 0x06a3, product_id: 0x0763}
//	virt_devices:
//	  combined:
//	    name: Combined Controls
//	    axes:
//	      X: {min: -32768, max: 32767, expr: "stick:X"}
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/expr"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	RealDevices map[string]yamlMatcher    `yaml:"real_devices"`
	VirtDevices map[string]yamlVirtDevice `yaml:"virt_devices"`
}

// yamlMatcher accepts either a bare path or a vendor/product mapping.
type yamlMatcher struct {
	config.Matcher
}

func (m *yamlMatcher) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		m.Path = node.Value
		return nil
	case yaml.MappingNode:
		var ids struct {
			VendorID  uint16 `yaml:"vendor_id"`
			ProductID uint16 `yaml:"product_id"`
		}
		if err := node.Decode(&ids); err != nil {
			return err
		}
		m.VendorID, m.ProductID = ids.VendorID, ids.ProductID
		return nil
	}
	return fmt.Errorf("line %d: device matcher must be a path or a mapping with vendor_id and product_id", node.Line)
}

type yamlSocketIO struct {
	URL                string `yaml:"url"`
	Namespace          string `yaml:"namespace"`
	Event              string `yaml:"event"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type yamlVirtDevice struct {
	Name      string              `yaml:"name"`
	VendorID  uint16              `yaml:"vendor_id"`
	ProductID uint16              `yaml:"product_id"`
	Backend   string              `yaml:"backend"`
	SocketIO  *yamlSocketIO       `yaml:"socketio"`
	Axes      map[string]yamlAxis `yaml:"axes"`
}

type yamlAxis struct {
	Min  int32     `yaml:"min"`
	Max  int32     `yaml:"max"`
	Expr yaml.Node `yaml:"expr"`
}

// ExprError is an expression parse failure located in the source file. It
// unwraps to the *expr.ParseError or *expr.UnknownAxisNameError.
type ExprError struct {
	Path   string
	Line   int
	Column int
	Device string
	Axis   axis.Axis
	Err    error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("%s:%d:%d: virtual axis %s:%s: %v", e.Path, e.Line, e.Column, e.Device, e.Axis, e.Err)
}

func (e *ExprError) Unwrap() error { return e.Err }

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the YAML file at path into a config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	ctxlog.FromContext(ctx).Debug("YAML loader started.", "path", path)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return l.LoadBytes(ctx, b, path)
}

// LoadBytes decodes YAML held in memory; path is used in messages.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	var f yamlFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	model := config.NewModel()
	for name, m := range f.RealDevices {
		model.PhysicalDevices[name] = &config.PhysicalDevice{Name: name, Matcher: m.Matcher}
	}

	var errs []error
	for _, name := range config.SortedNames(f.VirtDevices) {
		dev, devErrs := translateVirtual(path, name, f.VirtDevices[name])
		errs = append(errs, devErrs...)
		model.VirtualDevices[name] = dev
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, errors.Join(errs...))
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger.Debug("YAML loading complete.", "physical_devices", len(model.PhysicalDevices), "virtual_devices", len(model.VirtualDevices))
	return model, nil
}

func translateVirtual(path, name string, y yamlVirtDevice) (*config.VirtualDevice, []error) {
	dev := &config.VirtualDevice{
		Name:        name,
		DisplayName: y.Name,
		VendorID:    y.VendorID,
		ProductID:   y.ProductID,
		Backend:     config.Backend(y.Backend),
		Axes:        make(map[axis.Axis]*config.AxisConfig, len(y.Axes)),
	}
	if y.SocketIO != nil {
		dev.SocketIO = &config.SocketIOOptions{
			URL:                y.SocketIO.URL,
			Namespace:          y.SocketIO.Namespace,
			Event:              y.SocketIO.Event,
			InsecureSkipVerify: y.SocketIO.InsecureSkipVerify,
		}
	}

	var errs []error
	for _, axisName := range config.SortedNames(y.Axes) {
		ya := y.Axes[axisName]
		a, err := axis.Parse(axisName)
		if err != nil {
			errs = append(errs, fmt.Errorf("virtual device %q: %w", name, err))
			continue
		}
		if ya.Expr.Kind != yaml.ScalarNode {
			errs = append(errs, fmt.Errorf("%s: virtual axis %s:%s: expr must be a string", path, name, a))
			continue
		}
		parsed, err := expr.Parse(ya.Expr.Value)
		if err != nil {
			errs = append(errs, &ExprError{Path: path, Line: ya.Expr.Line, Column: ya.Expr.Column, Device: name, Axis: a, Err: err})
			continue
		}
		dev.Axes[a] = &config.AxisConfig{Min: ya.Min, Max: ya.Max, Expr: parsed, Source: ya.Expr.Value}
	}

	dev.ApplyDefaults()
	return dev, errs
}
