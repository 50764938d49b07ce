package cli

import (
	"github.com/spf13/cobra"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "graph",
		Short:         "Print the virtual devices and the physical-to-virtual fan-out",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := loadOffline(cmd, opts)
			if err != nil {
				return err
			}
			return g.Dump(cmd.OutOrStdout())
		},
	}
}
