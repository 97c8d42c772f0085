package driven

import (
	"context"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// SheetPublisher writes normalised calls to a dashboard tab.
type SheetPublisher interface {
	// Publish clears the named tab and rewrites it with a header, the calls,
	// and the computed timestamp columns. It never appends.
	Publish(ctx context.Context, sheet string, calls []domain.NormalizedCall) error
}

// SpreadsheetResolver finds a spreadsheet by its title.
type SpreadsheetResolver interface {
	// ResolveSpreadsheet returns the ID of the spreadsheet with the given title.
	// Returns domain.ErrSpreadsheetNotFound when nothing matches.
	ResolveSpreadsheet(ctx context.Context, name string) (string, error)
}
