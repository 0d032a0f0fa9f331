package domain

import "time"

// Snapshot is the pre-built offline dataset, in canonical shape.
type Snapshot struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Bills       []Bill      `json:"bills"`
	Members     []Member    `json:"members"`
	Committees  []Committee `json:"committees"`
}

// Counts returns the number of records of each kind.
func (s *Snapshot) Counts() map[RecordKind]int {
	return map[RecordKind]int{
		KindBill:      len(s.Bills),
		KindMember:    len(s.Members),
		KindCommittee: len(s.Committees),
	}
}
