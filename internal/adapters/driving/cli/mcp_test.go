package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.NotNil(t, mcpCmd.Flags().Lookup("port"))
	assert.NotNil(t, mcpCmd.Flags().Lookup("publish"))
	assert.Contains(t, mcpCmd.Long, "missed_calls")
}

func TestMCPCmd_DryRunPipelineByDefault(t *testing.T) {
	m := setupFactory(t)
	m.pipelineErr = domain.ErrAuthRequired

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"mcp"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.True(t, m.dryRun, "no Google credentials needed without --publish")
}

func TestMCPCmd_PublishNeedsFullPipeline(t *testing.T) {
	m := setupFactory(t)
	m.pipelineErr = domain.ErrAuthRequired

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"mcp", "--publish"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.False(t, m.dryRun)
}
