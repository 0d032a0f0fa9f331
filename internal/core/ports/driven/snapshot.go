package driven

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// SnapshotStore serves the static offline dataset. Lookups are keyed the
// same way as live queries and return domain.ErrNotFound when absent.
type SnapshotStore interface {
	// Bill returns a bill by ID ("118-hr-1234").
	Bill(ctx context.Context, id string) (domain.Bill, error)

	// Bills returns a page of the bills of a congress.
	Bills(ctx context.Context, congress int, page domain.Page) ([]domain.Bill, error)

	// Member returns a member by bioguide ID.
	Member(ctx context.Context, bioguideID string) (domain.Member, error)

	// MembersByState returns the members representing a state.
	MembersByState(ctx context.Context, state string) ([]domain.Member, error)

	// Committee returns a committee by chamber and system code.
	Committee(ctx context.Context, chamber, code string) (domain.Committee, error)

	// Committees returns the committees of a chamber.
	Committees(ctx context.Context, chamber string) ([]domain.Committee, error)
}
