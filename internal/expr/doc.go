// Package expr implements the small arithmetic language used to define a
// virtual axis in terms of physical axes.
//
// Grammar:
//
//	expr     := term (("+" | "-") term)*
//	term     := factor (("*" | "/") factor)*
//	factor   := literal | axis_ref | "(" expr ")"
//	axis_ref := device_name ":" axis_name
//	literal  := ["+" | "-"] digit+
//
// All four operators are left-associative and "*" and "/" bind tighter than
// "+" and "-". Whitespace between tokens is ignored. A device name is any run
// of characters up to the ':' that contains no whitespace, parentheses or
// '+', '*', '/' and does not start with '-'; a '-' inside a name belongs to
// the name, so subtraction from a name needs surrounding spaces when the
// left operand is a literal ("2 - pad:X"). An axis name must match one of
// the canonical axis names exactly.
//
// Parsed trees are immutable values; two trees are structurally equal exactly
// when they compare equal with ==.
package expr
