package driven

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// Upstream fetches raw records from the remote legislative-records API.
// Implementations perform exactly one HTTP exchange per call; retries,
// admission and caching are the caller's business.
type Upstream interface {
	// Fetch performs the request described by the query.
	// Failures are returned as *domain.UpstreamError where the cause is known.
	Fetch(ctx context.Context, q domain.Query) (*domain.RawResponse, error)
}
