package driven

import "github.com/custodia-labs/legis/internal/core/domain"

// Canonicalizer maps raw upstream responses to canonical records.
// Every method is total: fields that cannot be interpreted are replaced by
// their defaults and reported as diagnostics, never as errors.
// Implementations are pure: the same input always yields the same output.
type Canonicalizer interface {
	// Bill normalises a single-bill response.
	Bill(raw domain.Object) (domain.Bill, []domain.Diagnostic)

	// Bills normalises a bill list response.
	Bills(raw domain.Object) ([]domain.Bill, []domain.Diagnostic)

	// Member normalises a single-member response.
	Member(raw domain.Object) (domain.Member, []domain.Diagnostic)

	// Members normalises a member list response.
	Members(raw domain.Object) ([]domain.Member, []domain.Diagnostic)

	// Committee normalises a single-committee response.
	Committee(raw domain.Object) (domain.Committee, []domain.Diagnostic)

	// Committees normalises a committee list response.
	Committees(raw domain.Object) ([]domain.Committee, []domain.Diagnostic)

	// BillText renders a canonical bill as plain structured text.
	BillText(bill domain.Bill) string
}
