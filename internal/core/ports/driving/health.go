package driving

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// HealthService reports and checks upstream health.
type HealthService interface {
	// Status returns the current health state.
	Status() domain.HealthStatus

	// Probe sends one canary request and records its outcome.
	// A successful probe is the only way back to live mode.
	Probe(ctx context.Context) (domain.HealthStatus, error)

	// RateBudgets returns the state of every outbound rate budget.
	RateBudgets() []domain.RateBudgetStats
}
