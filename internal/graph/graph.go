package graph

import (
	"context"
	"errors"
	"sort"

	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/config"
	"github.com/vk/axisflow/internal/ctxlog"
	"github.com/vk/axisflow/internal/device"
	"github.com/vk/axisflow/internal/expr"
)

// VirtDeviceID indexes the virtual device arena of a Graph.
type VirtDeviceID int

// VirtDevice is one entry of the arena.
type VirtDevice struct {
	ID     VirtDeviceID
	Name   string
	Config *config.VirtualDevice
}

// VirtAxis is a virtual axis and the expression governing it.
type VirtAxis struct {
	Device     VirtDeviceID
	DeviceName string
	Axis       axis.Axis
	Min, Max   int32
	Expr       expr.Expr
	deps       []axis.Key
}

// Key returns the virtual (device, axis) pair.
func (v *VirtAxis) Key() axis.Key {
	return axis.Key{Device: v.DeviceName, Axis: v.Axis}
}

// Dependencies returns the physical axes the expression reads, in
// first-occurrence order.
func (v *VirtAxis) Dependencies() []axis.Key {
	return v.deps
}

func (v *VirtAxis) sameAs(o *VirtAxis) bool {
	return v.Device == o.Device && v.Axis == o.Axis && v.Expr == o.Expr
}

// RealAxis is an observed physical axis and the virtual axes downstream of it.
type RealAxis struct {
	Key        axis.Key
	Downstream []*VirtAxis
}

func (r *RealAxis) add(v *VirtAxis) {
	for _, d := range r.Downstream {
		if d.sameAs(v) {
			return
		}
	}
	r.Downstream = append(r.Downstream, v)
}

// Graph maps physical axes to their downstream virtual axes.
type Graph struct {
	real    map[axis.Key]*RealAxis
	devices []VirtDevice
	axes    []*VirtAxis
}

// Build validates every virtual axis expression against the physical
// devices and assembles the graph. It is all-or-nothing: on any failure it
// returns a nil Graph and every UndefinedDeviceError and
// UnsupportedAxisError found, joined.
func Build(ctx context.Context, physical map[string]device.Supporter, virtual map[string]*config.VirtualDevice) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := &Graph{real: make(map[axis.Key]*RealAxis)}

	var errs []error
	for _, name := range config.SortedNames(virtual) {
		vd := virtual[name]
		id := VirtDeviceID(len(g.devices))
		g.devices = append(g.devices, VirtDevice{ID: id, Name: name, Config: vd})

		for _, a := range axis.Sorted(vd.Axes) {
			ac := vd.Axes[a]
			va := &VirtAxis{
				Device:     id,
				DeviceName: name,
				Axis:       a,
				Min:        ac.Min,
				Max:        ac.Max,
				Expr:       ac.Expr,
				deps:       expr.Dependencies(ac.Expr),
			}
			g.axes = append(g.axes, va)

			for _, dep := range va.deps {
				src, ok := physical[dep.Device]
				if !ok {
					errs = append(errs, &UndefinedDeviceError{Device: dep.Device, VirtualAxis: va.Key()})
					continue
				}
				if !src.Supports(dep.Axis) {
					errs = append(errs, &UnsupportedAxisError{Device: dep.Device, Axis: dep.Axis, VirtualAxis: va.Key()})
					continue
				}
				ra, ok := g.real[dep]
				if !ok {
					ra = &RealAxis{Key: dep}
					g.real[dep] = ra
				}
				ra.add(va)
			}
			logger.Debug("Added virtual axis to graph.", "virtual_axis", va.Key().String(), "dependencies", len(va.deps))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	logger.Debug("Dependency graph built.", "physical_axes", len(g.real), "virtual_axes", len(g.axes))
	return g, nil
}

// Lookup returns the RealAxis for a physical (device, axis) pair. It reports
// false when no virtual axis depends on it.
func (g *Graph) Lookup(k axis.Key) (*RealAxis, bool) {
	ra, ok := g.real[k]
	return ra, ok
}

// Devices returns the virtual device arena in id order.
func (g *Graph) Devices() []VirtDevice {
	return g.devices
}

// Device resolves an arena id.
func (g *Graph) Device(id VirtDeviceID) VirtDevice {
	return g.devices[id]
}

// VirtualAxes returns every virtual axis in build order.
func (g *Graph) VirtualAxes() []*VirtAxis {
	return g.axes
}

// RealAxes returns the observed physical axes sorted by device name, then
// axis code.
func (g *Graph) RealAxes() []*RealAxis {
	out := make([]*RealAxis, 0, len(g.real))
	for _, ra := range g.real {
		out = append(out, ra)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Device != out[j].Key.Device {
			return out[i].Key.Device < out[j].Key.Device
		}
		return out[i].Key.Axis < out[j].Key.Axis
	})
	return out
}

// Observed returns the set of physical device names the graph reads.
func (g *Graph) Observed() map[string]bool {
	out := make(map[string]bool)
	for k := range g.real {
		out[k.Device] = true
	}
	return out
}
