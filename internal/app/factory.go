package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/custodia-labs/missedcalls/internal/adapters/driven/auth"
	"github.com/custodia-labs/missedcalls/internal/adapters/driven/config/file"
	"github.com/custodia-labs/missedcalls/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/missedcalls/internal/adapters/driving/cli"
	"github.com/custodia-labs/missedcalls/internal/connectors/aircall"
	"github.com/custodia-labs/missedcalls/internal/connectors/google"
	"github.com/custodia-labs/missedcalls/internal/connectors/google/drive"
	"github.com/custodia-labs/missedcalls/internal/connectors/google/sheets"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/core/services"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Verify interface compliance.
var _ cli.Factory = (*Factory)(nil)

// Factory builds services from configuration and the environment.
type Factory struct {
	env        *auth.EnvLoader
	googleOpts []option.ClientOption
	newRunID   func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithEnv replaces the process environment and file reader used for secrets.
func WithEnv(getenv func(string) string, readFile func(string) ([]byte, error)) Option {
	return func(f *Factory) {
		f.env = auth.NewEnvLoaderWith(getenv, readFile)
	}
}

// WithGoogleOptions adds client options to every Google API service.
func WithGoogleOptions(opts ...option.ClientOption) Option {
	return func(f *Factory) {
		f.googleOpts = append(f.googleOpts, opts...)
	}
}

// WithRunIDFunc overrides the run ID generator.
func WithRunIDFunc(fn func() string) Option {
	return func(f *Factory) {
		f.newRunID = fn
	}
}

// New creates a Factory reading secrets from the process environment.
func New(opts ...Option) *Factory {
	f := &Factory{
		env:      auth.NewEnvLoader(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// LoadEnv loads a dotenv file into the process environment.
func (f *Factory) LoadEnv(path string, explicit bool) error {
	return file.LoadDotEnv(path, explicit)
}

// ConfigPath returns the config file for the --config flag value.
func (f *Factory) ConfigPath(flag string) string {
	if flag == "" {
		return file.DefaultPath
	}
	return flag
}

// LoadConfig reads and validates the configuration file.
func (f *Factory) LoadConfig(path string, explicit bool) (*domain.Config, error) {
	return file.Load(f.ConfigPath(path), explicit)
}

// SaveConfig writes cfg in the format matching path.
func (f *Factory) SaveConfig(path string, cfg domain.Config) error {
	return file.Save(path, cfg)
}

// Pipeline builds a pipeline fetching from Aircall and, unless dryRun,
// publishing to the configured spreadsheet.
func (f *Factory) Pipeline(ctx context.Context, cfg *domain.Config, dryRun bool) (driving.Pipeline, error) {
	creds, err := f.env.Load(!dryRun)
	if err != nil {
		return nil, err
	}

	source := aircall.NewClient(cfg.Aircall, auth.NewStaticTokenProvider(auth.EnvAircallToken, creds.AircallToken))

	var publisher driven.SheetPublisher
	if !dryRun {
		p, err := f.publisher(ctx, cfg.Sheets, creds.GoogleServiceAccount)
		if err != nil {
			return nil, err
		}
		publisher = p
	}

	return services.NewPipeline(*cfg, source, publisher, services.WithRunIDFunc(f.newRunID)), nil
}

func (f *Factory) publisher(ctx context.Context, cfg domain.SheetsConfig, key []byte) (*sheets.Publisher, error) {
	ts, err := google.ServiceAccountTokenSource(ctx, key)
	if err != nil {
		return nil, err
	}
	logger.Debug("Google service account: %s", google.ServiceAccountEmail(key))

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		driveSvc, err := google.NewDriveService(ctx, ts, f.googleOpts...)
		if err != nil {
			return nil, fmt.Errorf("create drive service: %w", err)
		}
		spreadsheetID, err = drive.NewResolver(driveSvc).ResolveSpreadsheet(ctx, cfg.SpreadsheetName)
		if err != nil {
			return nil, err
		}
		logger.Info("Publishing to %q: %s", cfg.SpreadsheetName, drive.WebURL(spreadsheetID))
	}

	sheetsSvc, err := google.NewSheetsService(ctx, ts, f.googleOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return sheets.NewPublisher(sheetsSvc, spreadsheetID, sheets.WithCreateMissing(cfg.CreateMissing)), nil
}

// Scheduler builds an interval scheduler with in-memory task state.
func (f *Factory) Scheduler(
	cfg *domain.Config,
	p driving.Pipeline,
	onResult func(*domain.RunReport, error),
) cli.ReloadableScheduler {
	return services.NewScheduler(cfg.Schedule.Interval, memory.NewSchedulerStore(), p, onResult)
}

// WatchConfig reports changes to the config file until ctx is cancelled.
// Nothing is watched when the file does not exist.
func (f *Factory) WatchConfig(ctx context.Context, path string, onChange func()) error {
	path = f.ConfigPath(path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("config file %s not found, not watching", path)
			return nil
		}
		return fmt.Errorf("watch config: %w", err)
	}

	w, err := file.NewWatcher(path)
	if err != nil {
		return err
	}
	logger.Debug("Watching %s for changes", w.Path())
	w.Run(ctx, onChange)
	return ctx.Err()
}
