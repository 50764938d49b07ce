package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/expr"
)

// Defaults applied to virtual devices that omit the field.
const (
	DefaultDisplayName        = "Axisflow Device"
	DefaultVendorID    uint16 = 0x1209
	DefaultProductID   uint16 = 0x0001
)

// Model is the unified, format-agnostic representation of the configuration.
type Model struct {
	PhysicalDevices map[string]*PhysicalDevice
	VirtualDevices  map[string]*VirtualDevice
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		PhysicalDevices: make(map[string]*PhysicalDevice),
		VirtualDevices:  make(map[string]*VirtualDevice),
	}
}

// PhysicalDevice names an input device and says how to find it.
type PhysicalDevice struct {
	Name    string
	Matcher Matcher
}

// Matcher selects an input device either by event-device path or by USB
// vendor and product id. Exactly one form is set.
type Matcher struct {
	Path      string
	VendorID  uint16
	ProductID uint16
}

// ByID reports whether the matcher selects by vendor and product id.
func (m Matcher) ByID() bool {
	return m.Path == ""
}

func (m Matcher) String() string {
	if m.ByID() {
		return fmt.Sprintf("%04x:%04x", m.VendorID, m.ProductID)
	}
	return m.Path
}

// Backend selects the implementation behind a virtual device.
type Backend string

const (
	// BackendUInput creates a kernel input device through /dev/uinput.
	BackendUInput Backend = "uinput"
	// BackendPrint logs every write instead of emitting it.
	BackendPrint Backend = "print"
	// BackendSocketIO forwards every write to a socket.io server.
	BackendSocketIO Backend = "socketio"
)

// SocketIOOptions configures the socketio backend.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
}

// VirtualDevice is an output device whose axes are computed from expressions.
type VirtualDevice struct {
	Name        string
	DisplayName string
	VendorID    uint16
	ProductID   uint16
	Backend     Backend
	SocketIO    *SocketIOOptions
	Axes        map[axis.Axis]*AxisConfig
}

// AxisConfig governs one virtual axis. Min and Max are forwarded to the
// output device and are not enforced on computed values.
type AxisConfig struct {
	Min    int32
	Max    int32
	Expr   expr.Expr
	Source string // the expression as written in the file
}

// ApplyDefaults fills unset virtual device fields.
func (v *VirtualDevice) ApplyDefaults() {
	if v.DisplayName == "" {
		v.DisplayName = DefaultDisplayName
	}
	if v.VendorID == 0 {
		v.VendorID = DefaultVendorID
	}
	if v.ProductID == 0 {
		v.ProductID = DefaultProductID
	}
	if v.Backend == "" {
		v.Backend = BackendUInput
	}
	if v.Backend == BackendSocketIO && v.SocketIO != nil {
		if v.SocketIO.Namespace == "" {
			v.SocketIO.Namespace = "/"
		}
		if v.SocketIO.Event == "" {
			v.SocketIO.Event = "axis"
		}
	}
}

// Validate checks the structural rules that do not need any device. It
// reports every problem found, joined.
func (m *Model) Validate() error {
	var errs []error
	for _, name := range SortedNames(m.PhysicalDevices) {
		p := m.PhysicalDevices[name]
		if !expr.ValidDeviceName(name) {
			errs = append(errs, fmt.Errorf("physical device %q: name cannot be used in expressions: it must not be empty, start with '-', or contain whitespace, ':', '(', ')', '+', '*' or '/'", name))
		}
		if p.Matcher.ByID() && (p.Matcher.VendorID == 0 || p.Matcher.ProductID == 0) {
			errs = append(errs, fmt.Errorf("physical device %q: needs a path or both vendor_id and product_id", name))
		}
	}
	for _, name := range SortedNames(m.VirtualDevices) {
		v := m.VirtualDevices[name]
		if _, clash := m.PhysicalDevices[name]; clash {
			errs = append(errs, fmt.Errorf("device name %q is used by both a physical and a virtual device", name))
		}
		switch v.Backend {
		case BackendUInput, BackendPrint:
		case BackendSocketIO:
			if v.SocketIO == nil || v.SocketIO.URL == "" {
				errs = append(errs, fmt.Errorf("virtual device %q: socketio backend requires a url", name))
			}
		default:
			errs = append(errs, fmt.Errorf("virtual device %q: unknown backend %q", name, v.Backend))
		}
		if len(v.Axes) == 0 {
			errs = append(errs, fmt.Errorf("virtual device %q: defines no axes", name))
		}
		for _, a := range axis.Sorted(v.Axes) {
			ac := v.Axes[a]
			if ac.Expr == nil {
				errs = append(errs, fmt.Errorf("virtual axis %s:%s: missing expr", name, a))
			}
			if ac.Min > ac.Max {
				errs = append(errs, fmt.Errorf("virtual axis %s:%s: min %d is greater than max %d", name, a, ac.Min, ac.Max))
			}
		}
	}
	return errors.Join(errs...)
}

// SortedNames returns the keys of a device map in lexical order.
func SortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
