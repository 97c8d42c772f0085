package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// CallSource fetches call records from the telephony provider.
type CallSource interface {
	// FetchCalls returns every call created at or after since, in provider order.
	// Any request failure aborts the fetch.
	FetchCalls(ctx context.Context, since time.Time) ([]domain.RawCall, error)
}
