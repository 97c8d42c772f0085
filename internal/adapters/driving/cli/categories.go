package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured categories and their tabs",
	Long: `Shows each category in publish order with the tab it writes and the rules
a missed inbound call must satisfy to appear there. A call may appear in
several tabs.`,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		rows = append(rows, []string{c.Sheet, describeRules(c.Rules), c.Description})
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	writeln(out, st.newTable(out, []string{"SHEET", "RULES", "DESCRIPTION"}, rows).Render())
	return nil
}

// describeRules renders rules as a single AND expression.
func describeRules(rules []domain.Rule) string {
	if len(rules) == 0 {
		return "every missed inbound call"
	}
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, " AND ")
}
