package domain

import "time"

// RecordKind identifies a canonical record variant.
type RecordKind string

// Record kinds.
const (
	KindBill      RecordKind = "bill"
	KindMember    RecordKind = "member"
	KindCommittee RecordKind = "committee"
)

// Record is implemented by every canonical record variant.
type Record interface {
	// Kind returns the record variant.
	Kind() RecordKind

	// Identifier returns the key the record is stored under in the snapshot.
	Identifier() string
}

// Stage is a bill's inferred position in the legislative lifecycle.
type Stage string

// Bill stages, in lifecycle order.
const (
	StageIntroduced           Stage = "introduced"
	StageInCommittee          Stage = "in_committee"
	StageReported             Stage = "reported"
	StagePassedHouse          Stage = "passed_house"
	StagePassedSenate         Stage = "passed_senate"
	StageResolvingDifferences Stage = "resolving_differences"
	StageToPresident          Stage = "to_president"
	StageEnacted              Stage = "enacted"
	StageVetoed               Stage = "vetoed"
	StageFailed               Stage = "failed"
)

// MilestoneCategory is the coarse grouping of a timeline entry.
type MilestoneCategory string

// Milestone categories.
const (
	CategoryIntroduction MilestoneCategory = "introduction"
	CategoryCommittee    MilestoneCategory = "committee"
	CategoryCalendar     MilestoneCategory = "calendar"
	CategoryFloor        MilestoneCategory = "floor"
	CategoryPresident    MilestoneCategory = "president"
	CategoryLaw          MilestoneCategory = "law"
	CategoryVeto         MilestoneCategory = "veto"
	CategoryConference   MilestoneCategory = "conference"
	CategoryOther        MilestoneCategory = "other"
)

// Action is a dated piece of legislative action text.
type Action struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// Milestone is one entry of a bill's rebuilt timeline.
type Milestone struct {
	Date       time.Time         `json:"date"`
	Text       string            `json:"text"`
	Category   MilestoneCategory `json:"category"`
	ActionCode string            `json:"action_code"`
	Chamber    string            `json:"chamber"`
}

// MemberRef is a short reference to a member, as embedded in a bill.
type MemberRef struct {
	BioguideID string `json:"bioguide_id"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	State      string `json:"state"`
}

// Bill is the canonical bill record.
type Bill struct {
	ID             string      `json:"id"`
	Congress       int         `json:"congress"`
	Type           string      `json:"type"`
	Number         string      `json:"number"`
	Title          string      `json:"title"`
	OriginChamber  string      `json:"origin_chamber"`
	IntroducedDate time.Time   `json:"introduced_date"`
	PolicyArea     string      `json:"policy_area"`
	Sponsor        MemberRef   `json:"sponsor"`
	CosponsorCount int         `json:"cosponsor_count"`
	LatestAction   Action      `json:"latest_action"`
	Stage          Stage       `json:"stage"`
	IsActive       bool        `json:"is_active"`
	Timeline       []Milestone `json:"timeline"`
	Subjects       []string    `json:"subjects"`
	Summary        string      `json:"summary"`
	UpdatedAt      time.Time   `json:"updated_at"`
	URL            string      `json:"url"`
}

// Kind returns KindBill.
func (Bill) Kind() RecordKind { return KindBill }

// Identifier returns the bill ID, e.g. "118-hr-1234".
func (b Bill) Identifier() string { return b.ID }

// Term is one period of service in a chamber.
type Term struct {
	Chamber   string `json:"chamber"`
	Congress  int    `json:"congress"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
	State     string `json:"state"`
	District  int    `json:"district"`
}

// Member is the canonical member-of-congress record.
type Member struct {
	BioguideID string `json:"bioguide_id"`
	Name       string `json:"name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Party      string `json:"party"`
	PartyName  string `json:"party_name"`
	State      string `json:"state"`
	District   int    `json:"district"`
	Chamber    string `json:"chamber"`
	Terms      []Term `json:"terms"`
	ImageURL   string `json:"image_url"`
	Current    bool   `json:"current"`
	URL        string `json:"url"`
}

// Kind returns KindMember.
func (Member) Kind() RecordKind { return KindMember }

// Identifier returns the bioguide ID.
func (m Member) Identifier() string { return m.BioguideID }

// CommitteeRef is a short reference to a committee or subcommittee.
type CommitteeRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Committee is the canonical committee record.
type Committee struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Chamber       string         `json:"chamber"`
	Type          string         `json:"type"`
	ParentCode    string         `json:"parent_code"`
	Subcommittees []CommitteeRef `json:"subcommittees"`
	Current       bool           `json:"current"`
	URL           string         `json:"url"`
}

// Kind returns KindCommittee.
func (Committee) Kind() RecordKind { return KindCommittee }

// Identifier returns "<chamber>/<code>".
func (c Committee) Identifier() string { return CommitteeKey(c.Chamber, c.Code) }

// Diagnostic is a non-fatal note left by the canonicalizer when a field
// could not be interpreted and was replaced by its default.
type Diagnostic struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
