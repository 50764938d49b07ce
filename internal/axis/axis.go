package axis

import (
	"fmt"
	"sort"
)

// Axis is one of the canonical absolute control dimensions. The numeric value
// of each constant equals the Linux ABS_* event code for that axis.
type Axis uint16

const (
	X Axis = iota
	Y
	Z
	RX
	RY
	RZ
	Throttle
	Rudder
	Wheel
	Gas
	Brake
)

// All lists every axis in code order.
var All = []Axis{X, Y, Z, RX, RY, RZ, Throttle, Rudder, Wheel, Gas, Brake}

var names = [...]string{
	X:        "X",
	Y:        "Y",
	Z:        "Z",
	RX:       "RX",
	RY:       "RY",
	RZ:       "RZ",
	Throttle: "Throttle",
	Rudder:   "Rudder",
	Wheel:    "Wheel",
	Gas:      "Gas",
	Brake:    "Brake",
}

var byName = func() map[string]Axis {
	m := make(map[string]Axis, len(names))
	for i, n := range names {
		m[n] = Axis(i)
	}
	return m
}()

// String returns the canonical, case-sensitive name of the axis.
func (a Axis) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Axis(%d)", uint16(a))
	}
	return names[a]
}

// Valid reports whether a is one of the canonical axes.
func (a Axis) Valid() bool {
	return int(a) < len(names)
}

// Code returns the Linux ABS_* event code for the axis.
func (a Axis) Code() uint16 {
	return uint16(a)
}

// FromCode maps a Linux ABS_* event code back to an Axis.
func FromCode(code uint16) (Axis, bool) {
	a := Axis(code)
	return a, a.Valid()
}

// Parse looks up an axis by its exact canonical name.
func Parse(name string) (Axis, error) {
	a, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("unknown axis name: %q", name)
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid axis %d", uint16(a))
	}
	return []byte(names[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sorted returns the keys of a map indexed by Axis in code order.
func Sorted[V any](m map[Axis]V) []Axis {
	out := make([]Axis, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
