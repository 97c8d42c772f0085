package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

// errNotConfigured is returned when main did not inject a Factory.
var errNotConfigured = errors.New("services not configured")

// Factory builds configured services for the commands.
type Factory interface {
	// LoadEnv loads a .env file. A missing file is an error only when explicit.
	LoadEnv(path string, explicit bool) error

	// ConfigPath returns the file LoadConfig reads for the given flag value.
	ConfigPath(flag string) string

	// LoadConfig reads and validates the configuration. A missing file yields
	// the defaults unless explicit.
	LoadConfig(path string, explicit bool) (*domain.Config, error)

	// SaveConfig writes cfg to path.
	SaveConfig(path string, cfg domain.Config) error

	// Pipeline builds a pipeline. A dry-run pipeline needs no Google credentials.
	Pipeline(ctx context.Context, cfg *domain.Config, dryRun bool) (driving.Pipeline, error)

	// Scheduler builds a scheduler running p every cfg.Schedule.Interval.
	Scheduler(cfg *domain.Config, p driving.Pipeline, onResult func(*domain.RunReport, error)) ReloadableScheduler

	// WatchConfig calls onChange whenever the file at path changes, until ctx ends.
	WatchConfig(ctx context.Context, path string, onChange func()) error
}

// ReloadableScheduler is a scheduler whose pipeline can be swapped between runs.
type ReloadableScheduler interface {
	driving.Scheduler
	SetPipeline(p driving.Pipeline)
}

// loadConfig reads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*domain.Config, error) {
	if factory == nil {
		return nil, errNotConfigured
	}
	return factory.LoadConfig(configPath, cmd.Flags().Changed("config"))
}
