package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui"
	"github.com/custodia-labs/missedcalls/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

var (
	watchInterval time.Duration
	watchNoReload bool
	watchTUI      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Publish now and then on a fixed interval",
	Long: `Runs the pipeline immediately and then every interval until interrupted.
A failed run is reported and retried at the next interval.

The config file is watched; edits to categories or sheet settings apply from
the next run. Changing schedule.interval requires a restart.

With --tui a live monitor shows the run history and the time to the next run.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "time between runs (default schedule.interval, 15m)")
	watchCmd.Flags().BoolVar(&watchNoReload, "no-reload", false, "do not reload the config file when it changes")
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "show a live monitor instead of printing each run")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("interval") {
		if watchInterval <= 0 {
			return fmt.Errorf("%w: --interval must be positive", domain.ErrInvalidInput)
		}
		cfg.Schedule.Interval = watchInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pipeline, err := factory.Pipeline(ctx, cfg, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	onResult := func(report *domain.RunReport, runErr error) {
		if report != nil {
			renderReport(out, report)
		}
		if runErr != nil {
			logger.Error("run failed: %v", runErr)
		}
	}

	var results chan messages.RunFinished
	if watchTUI {
		results = make(chan messages.RunFinished)
		onResult = func(report *domain.RunReport, runErr error) {
			select {
			case results <- messages.RunFinished{Report: report, Err: runErr}:
			case <-ctx.Done():
			}
		}
	}

	scheduler := factory.Scheduler(cfg, pipeline, onResult)

	if !watchNoReload {
		path := factory.ConfigPath(configPath)
		interval := cfg.Schedule.Interval
		go func() {
			err := factory.WatchConfig(ctx, path, func() {
				next, err := factory.LoadConfig(path, true)
				if err != nil {
					logger.Error("config reload failed, keeping previous config: %v", err)
					return
				}
				if !cmd.Flags().Changed("interval") && next.Schedule.Interval != interval {
					logger.Warn("schedule.interval changed to %s; restart to apply", next.Schedule.Interval)
				}
				p, err := factory.Pipeline(ctx, next, false)
				if err != nil {
					logger.Error("config reload failed, keeping previous config: %v", err)
					return
				}
				scheduler.SetPipeline(p)
				if watchTUI {
					logger.Info("Reloaded configuration from %s", path)
					return
				}
				cmd.Printf("Reloaded configuration from %s\n", path)
			})
			if err != nil && !isCancelled(ctx, err) {
				logger.Warn("not watching %s: %v", path, err)
			}
		}()
	}

	if watchTUI {
		return runMonitor(ctx, cmd, cfg, scheduler, results)
	}

	cmd.Printf("Publishing every %s. Press Ctrl+C to stop.\n", cfg.Schedule.Interval)

	if err := scheduler.Start(ctx); err != nil && !isCancelled(ctx, err) {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}

// runMonitor drives the scheduler from the live monitor until the user quits.
func runMonitor(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *domain.Config,
	scheduler driving.Scheduler,
	results <-chan messages.RunFinished,
) error {
	target := cfg.Sheets.SpreadsheetID
	if target == "" {
		target = cfg.Sheets.SpreadsheetName
	}

	app, err := tui.NewApp(&tui.Ports{
		Scheduler: scheduler,
		Results:   results,
		Interval:  cfg.Schedule.Interval,
		Target:    target,
	})
	if err != nil {
		return err
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(cmd.ErrOrStderr())

	return tui.Run(ctx, app, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
}
