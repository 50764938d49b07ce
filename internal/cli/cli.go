package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vk/axisflow/internal/app"
	"github.com/vk/axisflow/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	HealthcheckPort int
	FailFast        bool

	// Devices opens devices for run; nil means the real ones.
	Devices app.Devices
	// Getenv resolves XDG_CONFIG_HOME and HOME; nil means os.Getenv.
	Getenv func(string) string
}

// NewRootCommand creates the axisflow command tree. Without a subcommand it
// behaves like run.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}
	run := NewRunCommand(opts)

	cmd := &cobra.Command{
		Use:   "axisflow",
		Short: "axisflow - remap joystick axes through arithmetic expressions",
		Long: `axisflow reads absolute axes from physical input devices, combines them
with user-written expressions and writes the results to virtual devices.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the configuration file (.yml, .yaml or .hcl).")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.LogFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	cmd.Flags().AddFlagSet(run.Flags())

	cmd.AddCommand(run)
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewGraphCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	return cmd
}

// appConfig resolves the configuration file and validates the flags.
func appConfig(opts *RootOptions) (*app.Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	path, err := config.Find(opts.ConfigPath, getenv)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: err.Error()}
	}
	cfg, err := app.NewConfig(app.Config{
		ConfigPath:      path,
		LogLevel:        opts.LogLevel,
		LogFormat:       opts.LogFormat,
		HealthcheckPort: opts.HealthcheckPort,
		FailFast:        opts.FailFast,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
