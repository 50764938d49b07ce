package expr

import (
	"fmt"
	"math"

	"github.com/vk/axisflow/internal/axis"
)

// Bindings maps axis references to their values for one evaluation.
type Bindings map[axis.Key]int32

// Evaluate computes the value of e. Operands are evaluated left before right.
// Division truncates toward zero; dividing by zero yields ErrDivisionByZero
// and any result outside the int32 range yields ErrOverflow. Evaluate has no
// side effects.
func Evaluate(e Expr, b Bindings) (int32, error) {
	switch n := e.(type) {
	case Literal:
		return n.Value, nil

	case AxisRef:
		v, ok := b[n.Key()]
		if !ok {
			return 0, &MissingBindingError{Key: n.Key()}
		}
		return v, nil

	case BinaryOp:
		l, err := Evaluate(n.Left, b)
		if err != nil {
			return 0, err
		}
		r, err := Evaluate(n.Right, b)
		if err != nil {
			return 0, err
		}
		return apply(n.Op, int64(l), int64(r))
	}
	return 0, fmt.Errorf("unsupported expression node %T", e)
}

func apply(op Operator, l, r int64) (int32, error) {
	var v int64
	switch op {
	case Add:
		v = l + r
	case Sub:
		v = l - r
	case Mul:
		v = l * r
	case Div:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		v = l / r
	default:
		return 0, fmt.Errorf("unsupported operator %d", int(op))
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d %s %d", ErrOverflow, l, op, r)
	}
	return int32(v), nil
}
