package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Long: `Writes the default configuration, including the default categories, to
path (default missedcalls.toml). The format follows the extension: .toml,
.yaml or .yml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if factory == nil {
		return errNotConfigured
	}

	path := factory.ConfigPath(configPath)
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := factory.SaveConfig(path, domain.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	spreadsheet := cfg.Sheets.SpreadsheetID
	if spreadsheet == "" {
		spreadsheet = fmt.Sprintf("%q (by name)", cfg.Sheets.SpreadsheetName)
	}

	rows := [][]string{
		{"config file", factory.ConfigPath(configPath)},
		{"aircall.base_url", cfg.Aircall.BaseURL},
		{"aircall.start", cfg.Aircall.Start.Format("2006-01-02 15:04:05 MST")},
		{"aircall.per_page", fmt.Sprint(cfg.Aircall.PerPage)},
		{"aircall.page_delay", cfg.Aircall.PageDelay.String()},
		{"aircall.timeout", cfg.Aircall.Timeout.String()},
		{"sheets.spreadsheet", spreadsheet},
		{"sheets.create_missing", fmt.Sprint(cfg.Sheets.CreateMissing)},
		{"sheets.fail_fast", fmt.Sprint(cfg.Sheets.FailFast)},
		{"transform.timezone", cfg.Transform.Location.String()},
		{"transform.skip_invalid", fmt.Sprint(cfg.Transform.SkipInvalid)},
		{"schedule.interval", cfg.Schedule.Interval.String()},
		{"categories", fmt.Sprint(len(cfg.Categories))},
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	writeln(out, st.newTable(out, []string{"SETTING", "VALUE"}, rows).Render())
	return nil
}
