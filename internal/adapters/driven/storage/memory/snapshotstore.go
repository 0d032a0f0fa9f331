package memory

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore serves a static snapshot from memory.
// The dataset can be swapped wholesale with Replace; readers always see
// either the old or the new snapshot, never a mix.
type SnapshotStore struct {
	mu   sync.RWMutex
	data *snapshotIndex
}

type snapshotIndex struct {
	generatedAt    time.Time
	bills          map[string]domain.Bill
	billsByCong    map[int][]domain.Bill
	members        map[string]domain.Member
	membersByState map[string][]domain.Member
	committees     map[string]domain.Committee
	byChamber      map[string][]domain.Committee
}

// NewSnapshotStore creates a store serving snap. A nil snapshot serves
// nothing until Replace is called.
func NewSnapshotStore(snap *domain.Snapshot) *SnapshotStore {
	s := &SnapshotStore{}
	s.Replace(snap)
	return s
}

// Replace swaps the served dataset.
func (s *SnapshotStore) Replace(snap *domain.Snapshot) {
	idx := buildIndex(snap)
	s.mu.Lock()
	s.data = idx
	s.mu.Unlock()
}

// GeneratedAt returns when the served snapshot was built.
func (s *SnapshotStore) GeneratedAt() time.Time {
	return s.index().generatedAt
}

// Counts returns the number of records of each kind.
func (s *SnapshotStore) Counts() map[domain.RecordKind]int {
	idx := s.index()
	return map[domain.RecordKind]int{
		domain.KindBill:      len(idx.bills),
		domain.KindMember:    len(idx.members),
		domain.KindCommittee: len(idx.committees),
	}
}

// Bill returns a bill by ID.
func (s *SnapshotStore) Bill(_ context.Context, id string) (domain.Bill, error) {
	b, ok := s.index().bills[strings.ToLower(id)]
	if !ok {
		return domain.Bill{}, domain.ErrNotFound
	}
	return b.Clone(), nil
}

// Bills returns a page of the bills of a congress.
func (s *SnapshotStore) Bills(_ context.Context, congress int, page domain.Page) ([]domain.Bill, error) {
	all, ok := s.index().billsByCong[congress]
	if !ok {
		return nil, domain.ErrNotFound
	}
	page = page.Normalised()
	if page.Offset >= len(all) {
		return []domain.Bill{}, nil
	}
	end := min(page.Offset+page.Limit, len(all))
	return domain.CloneRecords(all[page.Offset:end]), nil
}

// Member returns a member by bioguide ID.
func (s *SnapshotStore) Member(_ context.Context, bioguideID string) (domain.Member, error) {
	m, ok := s.index().members[strings.ToUpper(bioguideID)]
	if !ok {
		return domain.Member{}, domain.ErrNotFound
	}
	return m.Clone(), nil
}

// MembersByState returns the current members representing a state.
func (s *SnapshotStore) MembersByState(_ context.Context, state string) ([]domain.Member, error) {
	members, ok := s.index().membersByState[strings.ToUpper(state)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.CloneRecords(members), nil
}

// Committee returns a committee by chamber and system code.
func (s *SnapshotStore) Committee(_ context.Context, chamber, code string) (domain.Committee, error) {
	c, ok := s.index().committees[domain.CommitteeKey(chamber, code)]
	if !ok {
		return domain.Committee{}, domain.ErrNotFound
	}
	return c.Clone(), nil
}

// Committees returns the committees of a chamber.
func (s *SnapshotStore) Committees(_ context.Context, chamber string) ([]domain.Committee, error) {
	committees, ok := s.index().byChamber[strings.ToLower(chamber)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.CloneRecords(committees), nil
}

func (s *SnapshotStore) index() *snapshotIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func buildIndex(snap *domain.Snapshot) *snapshotIndex {
	idx := &snapshotIndex{
		bills:          make(map[string]domain.Bill),
		billsByCong:    make(map[int][]domain.Bill),
		members:        make(map[string]domain.Member),
		membersByState: make(map[string][]domain.Member),
		committees:     make(map[string]domain.Committee),
		byChamber:      make(map[string][]domain.Committee),
	}
	if snap == nil {
		return idx
	}
	idx.generatedAt = snap.GeneratedAt

	for _, b := range snap.Bills {
		if b.ID == "" {
			continue
		}
		b = b.WithDefaults().Clone()
		idx.bills[strings.ToLower(b.ID)] = b
		idx.billsByCong[b.Congress] = append(idx.billsByCong[b.Congress], b)
	}
	for _, m := range snap.Members {
		if m.BioguideID == "" {
			continue
		}
		m = m.WithDefaults().Clone()
		idx.members[strings.ToUpper(m.BioguideID)] = m
		if m.Current && m.State != "" {
			state := strings.ToUpper(m.State)
			idx.membersByState[state] = append(idx.membersByState[state], m)
		}
	}
	for _, c := range snap.Committees {
		if c.Code == "" {
			continue
		}
		c = c.WithDefaults().Clone()
		idx.committees[c.Identifier()] = c
		chamber := strings.ToLower(c.Chamber)
		idx.byChamber[chamber] = append(idx.byChamber[chamber], c)
	}

	for _, bills := range idx.billsByCong {
		sortBills(bills)
	}
	for _, members := range idx.membersByState {
		slices.SortFunc(members, func(a, b domain.Member) int {
			return strings.Compare(a.Name, b.Name)
		})
	}
	for _, committees := range idx.byChamber {
		slices.SortFunc(committees, func(a, b domain.Committee) int {
			return strings.Compare(a.Code, b.Code)
		})
	}
	return idx
}

// sortBills orders bills by type code, then numerically by bill number.
func sortBills(bills []domain.Bill) {
	slices.SortFunc(bills, func(a, b domain.Bill) int {
		if c := strings.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		an, _ := strconv.Atoi(a.Number)
		bn, _ := strconv.Atoi(b.Number)
		return an - bn
	})
}
