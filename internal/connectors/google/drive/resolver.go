package drive

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/missedcalls/internal/connectors/google"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Ensure Resolver implements the SpreadsheetResolver interface.
var _ driven.SpreadsheetResolver = (*Resolver)(nil)

// SpreadsheetMimeType is the Drive MIME type of a Google Sheets document.
const SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Resolver looks up spreadsheets visible to the service account.
type Resolver struct {
	svc         *drive.Service
	rateLimiter *google.RateLimiter
}

// NewResolver creates a resolver backed by a Drive service.
func NewResolver(svc *drive.Service) *Resolver {
	return &Resolver{
		svc:         svc,
		rateLimiter: google.NewRateLimiter(google.ServiceDrive),
	}
}

// ResolveSpreadsheet returns the ID of the spreadsheet titled name.
// When several spreadsheets share the title, the most recently modified wins.
func (r *Resolver) ResolveSpreadsheet(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: spreadsheet name is empty", domain.ErrInvalidInput)
	}

	if err := r.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := r.svc.Files.List().
		Q(SpreadsheetQuery(name)).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("list spreadsheets: %w", google.WrapError(err))
	}

	switch len(resp.Files) {
	case 0:
		return "", fmt.Errorf("%w: %q (is it shared with the service account?)", domain.ErrSpreadsheetNotFound, name)
	case 1:
	default:
		logger.Warn("%d spreadsheets are named %q, using %s", len(resp.Files), name, resp.Files[0].Id)
	}

	logger.Debug("Resolved spreadsheet %q to %s", name, resp.Files[0].Id)
	return resp.Files[0].Id, nil
}

// SpreadsheetQuery builds the Drive search expression for an exact title match.
func SpreadsheetQuery(name string) string {
	return fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), SpreadsheetMimeType)
}

// escapeQuery escapes backslashes and single quotes inside a query string literal.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// WebURL returns the browser URL of a spreadsheet.
func WebURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID + "/edit"
}
