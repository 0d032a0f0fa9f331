package driving

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// RecordService is the single entry point consumers use to read
// legislative records. Every result says where it came from and whether
// it is degraded; consumers never learn which source answered otherwise.
type RecordService interface {
	// GetBill returns a bill by ID ("118-hr-1234").
	GetBill(ctx context.Context, id string) (domain.Result[domain.Bill], error)

	// ListBills returns a page of the bills of a congress.
	ListBills(ctx context.Context, congress int, page domain.Page) (domain.Result[[]domain.Bill], error)

	// GetMember returns a member by bioguide ID.
	GetMember(ctx context.Context, bioguideID string) (domain.Result[domain.Member], error)

	// MembersByState returns the current members representing a state.
	MembersByState(ctx context.Context, state string) (domain.Result[[]domain.Member], error)

	// GetCommittee returns a committee by chamber and system code.
	GetCommittee(ctx context.Context, chamber, code string) (domain.Result[domain.Committee], error)

	// ListCommittees returns the committees of a chamber.
	ListCommittees(ctx context.Context, chamber string) (domain.Result[[]domain.Committee], error)

	// Invalidate drops cached results whose signature starts with prefix.
	// An empty prefix drops everything. Returns the number of entries removed.
	Invalidate(prefix string) int

	// Mode returns the current upstream health mode.
	Mode() domain.HealthMode
}
