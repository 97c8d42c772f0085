package cli

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	mu     sync.Mutex
	runs   []driving.RunOptions
	report *domain.RunReport
	err    error
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, opts)
	if m.report != nil {
		m.report.DryRun = opts.DryRun
	}
	return m.report, m.err
}

func (m *mockPipeline) Categories() []domain.Category {
	return domain.DefaultCategories()
}

// mockScheduler implements ReloadableScheduler for testing.
type mockScheduler struct {
	started  bool
	pipeline driving.Pipeline
	onResult func(*domain.RunReport, error)
	startErr error
}

func (m *mockScheduler) Start(_ context.Context) error {
	m.started = true
	if m.onResult != nil {
		report, err := m.pipeline.Run(context.Background(), driving.RunOptions{})
		m.onResult(report, err)
	}
	return m.startErr
}

func (m *mockScheduler) Stop() error {
	return nil
}

func (m *mockScheduler) SetPipeline(p driving.Pipeline) {
	m.pipeline = p
}

// mockFactory implements Factory for testing.
type mockFactory struct {
	cfg         *domain.Config
	loadErr     error
	pipeline    *mockPipeline
	pipelineErr error

	envPath        string
	envExplicit    bool
	configExplicit bool
	dryRun         bool
	schedCfg       *domain.Config
	scheduler      *mockScheduler
	saved          map[string]domain.Config
}

func newMockFactory() *mockFactory {
	cfg := domain.DefaultConfig()
	return &mockFactory{
		cfg:       &cfg,
		pipeline:  &mockPipeline{report: sampleReport()},
		scheduler: &mockScheduler{},
		saved:     make(map[string]domain.Config),
	}
}

func (m *mockFactory) LoadEnv(path string, explicit bool) error {
	m.envPath = path
	m.envExplicit = explicit
	return nil
}

func (m *mockFactory) ConfigPath(flag string) string {
	if flag == "" {
		return "missedcalls.toml"
	}
	return flag
}

func (m *mockFactory) LoadConfig(_ string, explicit bool) (*domain.Config, error) {
	m.configExplicit = explicit
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	cfg := *m.cfg
	return &cfg, nil
}

func (m *mockFactory) SaveConfig(path string, cfg domain.Config) error {
	m.saved[path] = cfg
	return os.WriteFile(path, []byte("# saved\n"), 0600)
}

func (m *mockFactory) Pipeline(_ context.Context, _ *domain.Config, dryRun bool) (driving.Pipeline, error) {
	m.dryRun = dryRun
	if m.pipelineErr != nil {
		return nil, m.pipelineErr
	}
	return m.pipeline, nil
}

func (m *mockFactory) Scheduler(
	cfg *domain.Config,
	p driving.Pipeline,
	onResult func(*domain.RunReport, error),
) ReloadableScheduler {
	m.schedCfg = cfg
	m.scheduler.pipeline = p
	m.scheduler.onResult = onResult
	return m.scheduler
}

func (m *mockFactory) WatchConfig(ctx context.Context, _ string, _ func()) error {
	<-ctx.Done()
	return ctx.Err()
}

func strPtr(s string) *string {
	return &s
}

func sampleReport() *domain.RunReport {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	call := domain.NormalizedCall{
		ID:        42,
		StartTime: started.Add(-2 * time.Hour),
		Missed:    true,
		To:        "33123456789",
		From:      "447700900123",
		Line:      "Sales FR",
		Duration:  12,
		Tags:      strPtr("VIP"),
		Direction: domain.DirectionInbound,
	}
	return &domain.RunReport{
		RunID:      "run-1",
		Since:      domain.DefaultStart,
		StartedAt:  started,
		EndedAt:    started.Add(1500 * time.Millisecond),
		Fetched:    1200,
		Normalized: 1200,
		Missed:     1,
		Subsets: []domain.Subset{
			{Category: domain.DefaultCategories()[0], Calls: []domain.NormalizedCall{call}},
			{Category: domain.DefaultCategories()[1], Calls: []domain.NormalizedCall{}},
		},
		Sheets: []domain.SheetResult{
			{Sheet: "missed_all", Rows: 1},
			{Sheet: "missed_sales", Rows: 0},
		},
	}
}

// setupFactory installs a mock factory and resets every flag.
func setupFactory(t *testing.T) *mockFactory {
	t.Helper()
	old := factory
	m := newMockFactory()
	factory = m
	resetFlags()

	t.Cleanup(func() {
		factory = old
		resetFlags()
		rootCmd.SetArgs(nil)
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})
	return m
}

// resetFlags restores defaults; cobra keeps flag state between Execute calls.
func resetFlags() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}
