package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// RateLimiter admits outbound upstream calls so the process never exceeds
// the upstream's published request ceiling.
type RateLimiter interface {
	// Admit returns once the call may proceed, or when ctx is done.
	// Waiters for the same budget are served first-come-first-served.
	Admit(ctx context.Context, class domain.RequestClass) (domain.Ticket, error)

	// ReportRateLimited shrinks the class's effective budget after a 429.
	// retryAfter is the upstream's Retry-After hint, zero if absent.
	ReportRateLimited(class domain.RequestClass, retryAfter time.Duration)

	// Stats returns the state of every budget.
	Stats() []domain.RateBudgetStats
}
