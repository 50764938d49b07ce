package engine

import (
	"fmt"

	"github.com/vk/axisflow/internal/axis"
)

// Op names the propagation step that failed.
type Op string

const (
	OpRead  Op = "read"
	OpEval  Op = "eval"
	OpWrite Op = "write"
)

// AxisError is a failure to update one virtual axis. Input is set for
// OpRead and names the physical axis that could not be read.
type AxisError struct {
	Op          Op
	VirtualAxis axis.Key
	Input       axis.Key
	Err         error
}

func (e *AxisError) Error() string {
	if e.Op == OpRead {
		return fmt.Sprintf("virtual axis %s: read %s: %v", e.VirtualAxis, e.Input, e.Err)
	}
	return fmt.Sprintf("virtual axis %s: %s: %v", e.VirtualAxis, e.Op, e.Err)
}

func (e *AxisError) Unwrap() error { return e.Err }
