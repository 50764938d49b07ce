package axis

import "fmt"

// Key identifies one axis on one named device. Device names are opaque and
// case-sensitive. Key is comparable and used directly as a map key.
type Key struct {
	Device string
	Axis   Axis
}

// K is a shorthand constructor for Key.
func K(device string, a Axis) Key {
	return Key{Device: device, Axis: a}
}

// String renders the key in expression syntax, e.g. "stick:X".
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Device, k.Axis)
}
