package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/missedcalls/internal/adapters/driving/mcp"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

var (
	mcpPort    int
	mcpPublish bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server so AI assistants can query the
dashboard.

Tools:
  missed_calls   fetch and classify calls without writing anything
  publish        rewrite every category tab (only with --publish)

Resources:
  missedcalls://categories          every configured category
  missedcalls://categories/{sheet}  one category

By default the server speaks JSON-RPC over stdio. Use --port to serve HTTP
instead, for example with MCP Inspector.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "missedcalls": {
        "command": "/path/to/missedcalls",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.Flags().BoolVar(&mcpPublish, "publish", false, "expose the publish tool (requires Google credentials)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := factory.Pipeline(ctx, cfg, !mcpPublish)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Pipeline: pipeline, Publish: mcpPublish})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	// stdout carries the protocol.
	if !verbose {
		logger.SetOutput(io.Discard)
	}
	return server.Run(ctx)
}
