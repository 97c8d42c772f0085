package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/missedcalls/internal/connectors/google"
	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Ensure Publisher implements the SheetPublisher interface.
var _ driven.SheetPublisher = (*Publisher)(nil)

// Publisher writes tables to the tabs of one spreadsheet.
type Publisher struct {
	api           sheetsAPI
	spreadsheetID string
	createMissing bool
	rateLimiter   *google.RateLimiter

	mu     sync.Mutex
	titles map[string]struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithCreateMissing adds absent tabs instead of failing with domain.ErrSheetNotFound.
func WithCreateMissing(create bool) Option {
	return func(p *Publisher) {
		p.createMissing = create
	}
}

// WithRateLimiter replaces the default Sheets rate limiter.
func WithRateLimiter(r *google.RateLimiter) Option {
	return func(p *Publisher) {
		p.rateLimiter = r
	}
}

// NewPublisher creates a publisher for the spreadsheet with the given ID.
func NewPublisher(svc *sheetsapi.Service, spreadsheetID string, opts ...Option) *Publisher {
	return newPublisher(&serviceAPI{svc: svc}, spreadsheetID, opts...)
}

func newPublisher(api sheetsAPI, spreadsheetID string, opts ...Option) *Publisher {
	p := &Publisher{
		api:           api,
		spreadsheetID: spreadsheetID,
		rateLimiter:   google.NewRateLimiter(google.ServiceSheets),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish replaces the content of the named tab with calls.
// Publishing the same calls twice leaves the header and data cells unchanged.
func (p *Publisher) Publish(ctx context.Context, sheet string, calls []domain.NormalizedCall) error {
	if strings.TrimSpace(sheet) == "" {
		return fmt.Errorf("%w: sheet name is empty", domain.ErrInvalidInput)
	}

	table := BuildTable(calls)
	if err := table.Validate(); err != nil {
		return err
	}

	if err := p.ensureSheet(ctx, sheet); err != nil {
		return err
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	if err := p.api.Clear(ctx, p.spreadsheetID, QuoteSheet(sheet)); err != nil {
		return fmt.Errorf("clear: %w", google.WrapError(err))
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	if err := p.api.BatchUpdateValues(ctx, p.spreadsheetID, table.ValueRanges(sheet)); err != nil {
		return fmt.Errorf("write values: %w", google.WrapError(err))
	}

	logger.Debug("Published %d rows to %s", len(calls), QuoteSheet(sheet))
	return nil
}

// ensureSheet checks the tab exists, creating it when allowed.
// Titles are cached; a miss refreshes the cache once before giving up.
func (p *Publisher) ensureSheet(ctx context.Context, sheet string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.titles[sheet]; ok {
		return nil
	}

	if err := p.loadTitles(ctx); err != nil {
		return err
	}
	if _, ok := p.titles[sheet]; ok {
		return nil
	}

	if !p.createMissing {
		return fmt.Errorf("%w: %q", domain.ErrSheetNotFound, sheet)
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	if err := p.api.AddSheet(ctx, p.spreadsheetID, sheet); err != nil {
		return fmt.Errorf("add sheet: %w", google.WrapError(err))
	}
	p.titles[sheet] = struct{}{}
	logger.Info("Created sheet %q", sheet)

	return nil
}

// loadTitles refreshes the title cache. Callers hold p.mu.
func (p *Publisher) loadTitles(ctx context.Context) error {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	titles, err := p.api.SheetTitles(ctx, p.spreadsheetID)
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", google.WrapError(err))
	}

	p.titles = make(map[string]struct{}, len(titles))
	for _, t := range titles {
		p.titles[t] = struct{}{}
	}
	return nil
}
