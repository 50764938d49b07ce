package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/axisflow/internal/app"
)

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "run",
		Short:         "Open the devices and remap until they go away",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := appConfig(opts)
			if err != nil {
				return err
			}
			a := app.NewApp(cmd.OutOrStdout(), cfg, opts.Devices)
			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&opts.HealthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Stop on the first failed virtual axis update instead of skipping it.")
	return cmd
}
