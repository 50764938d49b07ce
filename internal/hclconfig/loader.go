package hclconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/expr"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// ExprError is an expression parse failure located in the source file. It
// unwraps to the *expr.ParseError or *expr.UnknownAxisNameError.
type ExprError struct {
	Range  hcl.Range
	Device string
	Axis   axis.Axis
	Err    error
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("%s: virtual axis %s:%s: %v", e.Range, e.Device, e.Axis, e.Err)
}

func (e *ExprError) Unwrap() error { return e.Err }

// Load parses the HCL file at path into a config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, path, file.Body)
}

// LoadBytes parses HCL source held in memory; filename is used in messages.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, file.Body)
}

func (l *Loader) decode(ctx context.Context, path string, body hcl.Body) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model := config.NewModel()
	var diags hcl.Diagnostics
	var exprErrs []error

	for _, b := range root.PhysicalDevices {
		if _, dup := model.PhysicalDevices[b.Label]; dup {
			return nil, fmt.Errorf("%s: physical device %q is defined more than once", path, b.Label)
		}
		dev, d := translatePhysical(b)
		diags = append(diags, d...)
		model.PhysicalDevices[b.Label] = dev
	}

	for _, b := range root.VirtualDevices {
		if _, dup := model.VirtualDevices[b.Label]; dup {
			return nil, fmt.Errorf("%s: virtual device %q is defined more than once", path, b.Label)
		}
		dev, d, errs := translateVirtual(b)
		diags = append(diags, d...)
		exprErrs = append(exprErrs, errs...)
		model.VirtualDevices[b.Label] = dev
	}

	if diags.HasErrors() || len(exprErrs) > 0 {
		var errs []error
		if diags.HasErrors() {
			errs = append(errs, diags)
		}
		errs = append(errs, exprErrs...)
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, errors.Join(errs...))
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "physical_devices", len(model.PhysicalDevices), "virtual_devices", len(model.VirtualDevices))
	return model, nil
}

func translatePhysical(b *physicalDeviceBlock) (*config.PhysicalDevice, hcl.Diagnostics) {
	dev := &config.PhysicalDevice{Name: b.Label, Matcher: config.Matcher{Path: b.Path}}
	var diags hcl.Diagnostics
	if isExprDefined(b.VendorID) {
		id, d := decodeID(b.VendorID, "vendor_id")
		diags = append(diags, d...)
		dev.Matcher.VendorID = id
	}
	if isExprDefined(b.ProductID) {
		id, d := decodeID(b.ProductID, "product_id")
		diags = append(diags, d...)
		dev.Matcher.ProductID = id
	}
	if b.Path != "" && (dev.Matcher.VendorID != 0 || dev.Matcher.ProductID != 0) {
		rng := b.VendorID.Range()
		if !isExprDefined(b.VendorID) {
			rng = b.ProductID.Range()
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting device matcher",
			Detail:   fmt.Sprintf("Physical device %q sets both path and vendor/product ids; use one.", b.Label),
			Subject:  rng.Ptr(),
		})
	}
	return dev, diags
}

func translateVirtual(b *virtualDeviceBlock) (*config.VirtualDevice, hcl.Diagnostics, []error) {
	dev := &config.VirtualDevice{
		Name:        b.Label,
		DisplayName: b.Name,
		Backend:     config.Backend(b.Backend),
		Axes:        make(map[axis.Axis]*config.AxisConfig, len(b.Axes)),
	}
	var diags hcl.Diagnostics
	var exprErrs []error

	if isExprDefined(b.VendorID) {
		id, d := decodeID(b.VendorID, "vendor_id")
		diags = append(diags, d...)
		dev.VendorID = id
	}
	if isExprDefined(b.ProductID) {
		id, d := decodeID(b.ProductID, "product_id")
		diags = append(diags, d...)
		dev.ProductID = id
	}
	if b.SocketIO != nil {
		dev.SocketIO = &config.SocketIOOptions{
			URL:                b.SocketIO.URL,
			Namespace:          b.SocketIO.Namespace,
			Event:              b.SocketIO.Event,
			InsecureSkipVerify: b.SocketIO.InsecureSkipVerify,
		}
	}

	for _, ab := range b.Axes {
		a, err := axis.Parse(ab.Label)
		if err != nil {
			diags = append(diags, diagAt(ab.Expr, "Invalid axis block", fmt.Sprintf("Virtual device %q: %s.", b.Label, err)))
			continue
		}
		if _, dup := dev.Axes[a]; dup {
			diags = append(diags, diagAt(ab.Expr, "Duplicate axis block", fmt.Sprintf("Virtual device %q defines axis %s more than once.", b.Label, a)))
			continue
		}

		ac := &config.AxisConfig{}
		var d hcl.Diagnostics
		ac.Min, d = decodeInt32(ab.Min, "min")
		diags = append(diags, d...)
		ac.Max, d = decodeInt32(ab.Max, "max")
		diags = append(diags, d...)
		ac.Source, d = decodeString(ab.Expr, "expr")
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}

		parsed, err := expr.Parse(ac.Source)
		if err != nil {
			exprErrs = append(exprErrs, &ExprError{Range: ab.Expr.Range(), Device: b.Label, Axis: a, Err: err})
			continue
		}
		ac.Expr = parsed
		dev.Axes[a] = ac
	}

	dev.ApplyDefaults()
	return dev, diags, exprErrs
}
