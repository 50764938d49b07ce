package graph

import (
	"fmt"
	"io"
)

// Dump writes a human-readable listing of the graph: the virtual devices
// with their axes, then every physical axis with its fan-out in
// propagation order.
func (g *Graph) Dump(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("virtual devices:\n")
	for _, d := range g.devices {
		c := d.Config
		ew.printf("  %s (%s) %q %04x:%04x\n", d.Name, c.Backend, c.DisplayName, c.VendorID, c.ProductID)
	}
	ew.printf("virtual axes:\n")
	for _, va := range g.axes {
		ew.printf("  %s [%d, %d] = %s\n", va.Key(), va.Min, va.Max, va.Expr)
	}
	ew.printf("fan-out:\n")
	for _, ra := range g.RealAxes() {
		ew.printf("  %s\n", ra.Key)
		for _, va := range ra.Downstream {
			ew.printf("    -> %s\n", va.Key())
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
