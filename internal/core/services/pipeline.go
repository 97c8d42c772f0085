package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driving"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline sequences fetch, transform, classify and publish for one run.
type Pipeline struct {
	config      domain.Config
	source      driven.CallSource
	publisher   driven.SheetPublisher
	transformer *Transformer
	classifier  *Classifier

	now      func() time.Time
	newRunID func() string

	mu      sync.Mutex
	running bool
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithRunIDFunc sets the generator for run identifiers.
func WithRunIDFunc(fn func() string) PipelineOption {
	return func(p *Pipeline) {
		p.newRunID = fn
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline. The publisher may be nil, in which case
// only dry runs are possible.
func NewPipeline(
	config domain.Config,
	source driven.CallSource,
	publisher driven.SheetPublisher,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		config:      config,
		source:      source,
		publisher:   publisher,
		transformer: NewTransformer(config.Transform),
		classifier:  NewClassifier(config.Categories),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.newRunID == nil {
		p.newRunID = func() string {
			return fmt.Sprintf("run-%d", p.now().UnixNano())
		}
	}
	return p
}

// Categories returns the configured category mappings.
func (p *Pipeline) Categories() []domain.Category {
	return p.classifier.Categories()
}

// Run executes one pass of the pipeline.
func (p *Pipeline) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunReport, error) {
	if !p.acquire() {
		return nil, domain.ErrRunInProgress
	}
	defer p.release()

	if p.source == nil {
		return nil, errors.New("call source not configured")
	}
	if !opts.DryRun && p.publisher == nil {
		return nil, errors.New("sheet publisher not configured")
	}

	since := p.config.Aircall.Start
	if !opts.Since.IsZero() {
		since = opts.Since
	}

	report := &domain.RunReport{
		RunID:     p.newRunID(),
		Since:     since,
		StartedAt: p.now(),
		DryRun:    opts.DryRun,
	}
	logger.Info("Starting run %s for calls since %s", report.RunID, since.Format(time.RFC3339))

	// 1. Fetch
	logger.Section("Fetch")
	raw, err := p.source.FetchCalls(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch calls: %w", err)
	}
	report.Fetched = len(raw)
	logger.Info("Fetched %d calls", report.Fetched)

	// 2. Transform
	logger.Section("Transform")
	result, err := p.transformer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("transform calls: %w", err)
	}
	report.Normalized = len(result.Calls)
	report.Skipped = len(result.Skipped)

	// 3. Filter and classify
	logger.Section("Classify")
	missed := FilterMissedInbound(result.Calls)
	report.Missed = len(missed)
	report.Subsets = p.classifier.Classify(missed)
	for _, s := range report.Subsets {
		logger.Debug("Category %s: %d calls", s.Category.Sheet, len(s.Calls))
	}

	if opts.DryRun {
		report.EndedAt = p.now()
		return report, nil
	}

	// 4. Publish, one isolated unit per sheet
	logger.Section("Publish")
	report.Sheets = p.publishAll(ctx, report.Subsets)
	report.EndedAt = p.now()

	return report, report.Err()
}

func (p *Pipeline) publishAll(ctx context.Context, subsets []domain.Subset) []domain.SheetResult {
	results := make([]domain.SheetResult, 0, len(subsets))
	aborted := false

	for _, s := range subsets {
		res := domain.SheetResult{Sheet: s.Category.Sheet, Rows: len(s.Calls)}

		switch {
		case aborted:
			res.Skipped = true
		case ctx.Err() != nil:
			res.Err = ctx.Err()
		default:
			res.Err = p.publisher.Publish(ctx, s.Category.Sheet, s.Calls)
		}

		if res.Err != nil {
			logger.Error("Publishing %s failed: %v", res.Sheet, res.Err)
			if p.config.Sheets.FailFast {
				aborted = true
			}
		} else if !res.Skipped {
			logger.Info("Published %d rows to %s", res.Rows, res.Sheet)
		}
		results = append(results, res)
	}

	return results
}

func (p *Pipeline) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return false
	}
	p.running = true
	return true
}

func (p *Pipeline) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}
