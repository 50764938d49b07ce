package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/axisflow/internal/axis"
	"github.com/vk/axisflow/internal/expr"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPR [DEVICE:AXIS=VALUE ...]",
		Short: "Evaluate an expression against the given axis values",
		Example: `  axisflow eval "2 + 1 * (1 + 2)"
  axisflow eval "pedals:Brake - pedals:Gas" pedals:Brake=200 pedals:Gas=50`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := expr.Parse(args[0])
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			b := make(expr.Bindings, len(args)-1)
			for _, arg := range args[1:] {
				k, v, err := parseBinding(arg)
				if err != nil {
					return &ExitError{Code: 2, Message: err.Error()}
				}
				b[k] = v
			}
			v, err := expr.Evaluate(e, b)
			if err != nil {
				return &ExitError{Code: 1, Message: fmt.Sprintf("evaluate %s: %v", e, err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// parseBinding parses DEVICE:AXIS=VALUE.
func parseBinding(s string) (axis.Key, int32, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return axis.Key{}, 0, fmt.Errorf("invalid binding %q: expected DEVICE:AXIS=VALUE", s)
	}
	i := strings.LastIndex(lhs, ":")
	if i <= 0 {
		return axis.Key{}, 0, fmt.Errorf("invalid binding %q: expected DEVICE:AXIS=VALUE", s)
	}
	a, err := axis.Parse(lhs[i+1:])
	if err != nil {
		return axis.Key{}, 0, fmt.Errorf("invalid binding %q: %w", s, err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(rhs), 10, 32)
	if err != nil {
		return axis.Key{}, 0, fmt.Errorf("invalid binding %q: value must be a 32-bit integer", s)
	}
	return axis.K(lhs[:i], a), int32(v), nil
}
