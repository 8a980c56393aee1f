// Package cli implements the tokengate command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/metrics"
	"github.com/mrz1836/tokengate/internal/output"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	messenger *output.Messenger

	// Output streams, replaced in tests.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	helpOnce sync.Once
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tokengate",
	Short: "Token-gated builder access for Solana wallets",
	Long: `tokengate connects a Solana wallet, reads its balance of the gating token and
asks the authorization service to grant builder access once the balance reaches
the required amount. Disconnecting revokes the access again.

Example:
  tokengate ui
  tokengate check 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin
  tokengate config init`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	helpOnce.Do(func() { walkCommands(rootCmd, enrichParentLong) })

	err := rootCmd.Execute()
	if err != nil {
		formatErr(err)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return gateerr.ExitCode(err)
}

// formatErr prints err to stderr in the active output format.
func formatErr(err error) {
	format := output.FormatText
	if formatter != nil {
		format = formatter.Format()
	}
	_ = output.FormatError(stderr, err, format)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home, err := config.ExpandPath(home)
	if err != nil {
		return gateerr.WithCause(gateerr.ErrInvalidInput, err)
	}

	// A missing config file means defaults; a broken one is an error
	cfg, err = config.Load(config.Path(home))
	switch {
	case gateerr.Is(err, gateerr.ErrConfigNotFound):
		cfg = config.Defaults()
	case err != nil:
		return gateerr.WithSuggestion(err, "fix or remove "+config.Path(home))
	}
	cfg.Home = home

	if err = config.ApplyEnvironment(cfg); err != nil {
		return gateerr.WithCause(gateerr.ErrConfigInvalid, err)
	}

	// Command-line flags win over file and environment
	if homeDir != "" {
		cfg.Home = home
	}
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.Logging.File)
	if err != nil {
		// Use null logger if we can't create the file
		logger = config.NullLogger()
	}

	formatter = output.NewFormatter(output.Resolve(stdout, cfg.Output.DefaultFormat), stdout)
	messenger = output.NewMessenger(stdout, stderr, cfg.Output.Color == "never")

	return nil
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		logger.Debug("metrics: %+v", metrics.Global.Snapshot())
		_ = logger.Close()
	}
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "tokengate data directory (default: ~/.tokengate)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
