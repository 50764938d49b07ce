package expr

import (
	"strconv"

	"github.com/vk/axisflow/internal/axis"
)

// Expr is a node of a parsed expression tree. The concrete types are AxisRef,
// Literal and BinaryOp.
type Expr interface {
	String() string
	isExpr()
}

// AxisRef reads the current value of an axis on a named physical device.
type AxisRef struct {
	Device string
	Axis   axis.Axis
}

// Key returns the (device, axis) pair the reference reads.
func (r AxisRef) Key() axis.Key {
	return axis.Key{Device: r.Device, Axis: r.Axis}
}

func (r AxisRef) String() string { return r.Key().String() }
func (AxisRef) isExpr() {}

// Literal is a constant integer.
type Literal struct {
	Value int32
}

func (l Literal) String() string { return strconv.FormatInt(int64(l.Value), 10) }
func (Literal) isExpr() {}

// Operator is a binary arithmetic operator.
type Operator int

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return "?"
}

func (o Operator) precedence() int {
	if o == Mul || o == Div {
		return 2
	}
	return 1
}

// BinaryOp applies Op to the values of Left and Right.
type BinaryOp struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// String renders the node with the minimum parentheses needed to parse back
// into the same tree.
func (b BinaryOp) String() string {
	left := b.Left.String()
	if l, ok := b.Left.(BinaryOp); ok && l.Op.precedence() < b.Op.precedence() {
		left = "(" + left + ")"
	}
	right := b.Right.String()
	if r, ok := b.Right.(BinaryOp); ok && r.Op.precedence() <= b.Op.precedence() {
		right = "(" + right + ")"
	}
	return left + " " + b.Op.String() + " " + right
}

func (BinaryOp) isExpr() {}

// Ref, Lit and Bin are terse constructors, mostly useful in tests.
func Ref(device string, a axis.Axis) Expr { return AxisRef{Device: device, Axis: a} }
func Lit(v int32) Expr { return Literal{Value: v} }
func Bin(op Operator, l, r Expr) Expr { return BinaryOp{Op: op, Left: l, Right: r} }
