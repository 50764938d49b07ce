package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/axisflow/internal/app"
	"github.com/vk/axisflow/internal/graph"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without opening any device",
		Long: `Load the configuration, parse every expression and build the dependency
graph. Device names are checked; axis support is not, since that needs the
devices themselves.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := loadOffline(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d virtual devices, %d virtual axes, %d physical axes observed\n",
				len(g.Devices()), len(g.VirtualAxes()), len(g.RealAxes()))
			return nil
		},
	}
}

// loadOffline loads the configuration and builds its graph with logs going
// to stderr.
func loadOffline(cmd *cobra.Command, opts *RootOptions) (*graph.Graph, error) {
	cfg, err := appConfig(opts)
	if err != nil {
		return nil, err
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := app.WithLogger(parent, cfg, cmd.ErrOrStderr())

	model, err := app.LoadModel(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: err.Error()}
	}
	g, err := app.BuildOffline(ctx, model)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: fmt.Sprintf("invalid configuration in %s: %v", cfg.ConfigPath, err)}
	}
	return g, nil
}
