package aircall

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// PagePacer spaces consecutive page requests by a fixed delay.
// The first request is never delayed.
type PagePacer struct {
	limiter *rate.Limiter
}

// NewPagePacer creates a pacer. A zero delay disables pacing.
func NewPagePacer(delay time.Duration) *PagePacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &PagePacer{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next page may be requested.
func (p *PagePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
