package mcp

import (
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Pipeline classifies calls. Dry runs never touch the spreadsheet.
	Pipeline driving.Pipeline

	// Publish exposes the publish tool. The pipeline must then have a publisher.
	Publish bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
