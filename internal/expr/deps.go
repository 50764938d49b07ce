package expr

import "github.com/vk/axisflow/internal/axis"

// Dependencies returns the distinct axes e reads, in left-to-right,
// depth-first discovery order.
func Dependencies(e Expr) []axis.Key {
	var out []axis.Key
	seen := make(map[axis.Key]struct{})

	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case AxisRef:
			k := n.Key()
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		case BinaryOp:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return out
}
