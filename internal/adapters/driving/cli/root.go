// Package cli implements the missedcalls command line using cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	configPath string
	envFile    string
	verbose    bool
)

// factory builds the services commands run against. Set by main.
var factory Factory

var rootCmd = &cobra.Command{
	Use:   "missedcalls",
	Short: "Publish missed Aircall calls to a Google Sheets dashboard",
	Long: `missedcalls fetches call records from Aircall, keeps the inbound calls
nobody answered, sorts them into categories, and rewrites one tab of the
"Call Monitoring Dashboard" spreadsheet per category.

Run without a subcommand to publish once with the current configuration.

Secrets are read from the environment (or a .env file):
  AIR_CALL_API_TOKEN   Aircall API token
  GOOGLE_CREDS_JSON    Google service-account key (JSON)
  GOOGLE_CREDS_FILE    path to the key, when GOOGLE_CREDS_JSON is unset`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOnce(cmd, driving.RunOptions{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (.toml, .yaml or .yml; default missedcalls.toml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of environment variables to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetFactory injects the service factory.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion overrides the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// setup applies global flags before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if factory == nil {
		return nil
	}
	return factory.LoadEnv(envFile, cmd.Flags().Changed("env-file"))
}
