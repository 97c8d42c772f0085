package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

var (
	runSince  string
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Publish missed calls once",
	Long: `Fetches every call since the configured start, keeps missed inbound calls,
and rewrites each category's tab. A tab that fails does not stop the others
unless sheets.fail_fast is set.

With --dry-run nothing is written; the classified calls are printed instead,
and only AIR_CALL_API_TOKEN is required.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSince, "since", "", "fetch calls from this time (RFC 3339 or YYYY-MM-DD)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "classify calls without writing to the spreadsheet")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	opts := driving.RunOptions{DryRun: runDryRun}
	if runSince != "" {
		since, err := domain.ParseStart(runSince)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		opts.Since = since
	}
	return runOnce(cmd, opts)
}

// runOnce builds a pipeline from the current configuration and runs it.
func runOnce(cmd *cobra.Command, opts driving.RunOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := factory.Pipeline(ctx, cfg, opts.DryRun)
	if err != nil {
		return err
	}

	report, err := pipeline.Run(ctx, opts)
	if report != nil {
		out := cmd.OutOrStdout()
		if report.DryRun {
			renderSubsets(out, report)
		}
		renderReport(out, report)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// isCancelled reports whether err only signals shutdown.
func isCancelled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil
}
