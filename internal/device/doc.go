// Package device defines the capability contracts the propagation engine
// consumes: a physical-axis Source (read, supports, blocking event stream)
// and a virtual-axis Sink (write). Concrete devices live in the evdev,
// uinput and sinks packages; tests use the fakes in testutil.
package device
