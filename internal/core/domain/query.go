package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// RequestClass groups logical queries that share a cache TTL, retry
// behaviour and (when segmented) a rate budget.
type RequestClass string

// Request classes.
const (
	ClassBill          RequestClass = "bill"
	ClassBillList      RequestClass = "bill_list"
	ClassMember        RequestClass = "member"
	ClassMemberList    RequestClass = "member_list"
	ClassCommittee     RequestClass = "committee"
	ClassCommitteeList RequestClass = "committee_list"
	ClassProbe         RequestClass = "probe"
)

// AllRequestClasses returns every class, in declaration order.
func AllRequestClasses() []RequestClass {
	return []RequestClass{
		ClassBill, ClassBillList, ClassMember, ClassMemberList,
		ClassCommittee, ClassCommitteeList, ClassProbe,
	}
}

// IsValid returns true if the class is recognised.
func (c RequestClass) IsValid() bool {
	for _, known := range AllRequestClasses() {
		if c == known {
			return true
		}
	}
	return false
}

// Family returns the resource family the class belongs to.
// Segmented rate budgets are keyed by family.
func (c RequestClass) Family() string {
	switch c {
	case ClassMember, ClassMemberList:
		return "members"
	case ClassCommittee, ClassCommitteeList:
		return "committees"
	default:
		return "bills"
	}
}

// RequestSignature deterministically identifies a logical request.
// It is the endpoint followed by the query parameters sorted by name.
type RequestSignature string

// NewSignature encodes an endpoint and its parameters. Parameter order is
// irrelevant: equal parameter sets always encode identically.
func NewSignature(endpoint string, params map[string]string) RequestSignature {
	endpoint = "/" + strings.Trim(endpoint, "/")
	if len(params) == 0 {
		return RequestSignature(endpoint)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(endpoint)
	for i, k := range keys {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}
	return RequestSignature(sb.String())
}

// String returns the encoded signature.
func (s RequestSignature) String() string { return string(s) }

// HasPrefix reports whether the signature starts with prefix.
func (s RequestSignature) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(s), prefix)
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageLimit is used when a list query has no limit.
const DefaultPageLimit = 20

// MaxPageLimit is the largest page the upstream serves.
const MaxPageLimit = 250

// Normalised clamps the page to the upstream bounds.
func (p Page) Normalised() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Query is a logical request from the facade.
type Query struct {
	// Class drives TTL, retry and rate budget selection.
	Class RequestClass

	// Endpoint is the upstream resource path, e.g. "/bill/118/hr/1234".
	Endpoint string

	// Params are the logical query parameters (not auth or format).
	Params map[string]string

	// SnapshotKey is the identifier used for the static snapshot lookup.
	SnapshotKey string
}

// Signature returns the request signature of the query.
func (q Query) Signature() RequestSignature {
	return NewSignature(q.Endpoint, q.Params)
}

// BillQuery returns the query for a single bill.
func BillQuery(id BillID) Query {
	return Query{
		Class:       ClassBill,
		Endpoint:    fmt.Sprintf("/bill/%d/%s/%s", id.Congress, id.Type, id.Number),
		SnapshotKey: id.String(),
	}
}

// BillListQuery returns the query for a page of bills in a congress.
func BillListQuery(congress int, page Page) Query {
	page = page.Normalised()
	return Query{
		Class:    ClassBillList,
		Endpoint: fmt.Sprintf("/bill/%d", congress),
		Params: map[string]string{
			"limit":  strconv.Itoa(page.Limit),
			"offset": strconv.Itoa(page.Offset),
		},
		SnapshotKey: strconv.Itoa(congress),
	}
}

// MemberQuery returns the query for a single member.
func MemberQuery(bioguideID string) Query {
	id := strings.ToUpper(strings.TrimSpace(bioguideID))
	return Query{
		Class:       ClassMember,
		Endpoint:    "/member/" + id,
		SnapshotKey: id,
	}
}

// MembersByStateQuery returns the query for the members of a state.
func MembersByStateQuery(state string) Query {
	code := strings.ToUpper(strings.TrimSpace(state))
	return Query{
		Class:       ClassMemberList,
		Endpoint:    "/member/" + code,
		Params:      map[string]string{"currentMember": "true"},
		SnapshotKey: code,
	}
}

// CommitteeQuery returns the query for a single committee.
func CommitteeQuery(chamber, code string) Query {
	chamber = strings.ToLower(strings.TrimSpace(chamber))
	code = strings.ToLower(strings.TrimSpace(code))
	return Query{
		Class:       ClassCommittee,
		Endpoint:    "/committee/" + chamber + "/" + code,
		SnapshotKey: CommitteeKey(chamber, code),
	}
}

// CommitteeListQuery returns the query for the committees of a chamber.
func CommitteeListQuery(chamber string) Query {
	chamber = strings.ToLower(strings.TrimSpace(chamber))
	return Query{
		Class:       ClassCommitteeList,
		Endpoint:    "/committee/" + chamber,
		Params:      map[string]string{"limit": strconv.Itoa(MaxPageLimit)},
		SnapshotKey: chamber,
	}
}

// ProbeQuery returns the lightweight canary request used for fail-back.
func ProbeQuery() Query {
	return Query{
		Class:    ClassProbe,
		Endpoint: "/bill",
		Params:   map[string]string{"limit": "1"},
	}
}

// IsChamber reports whether s names a chamber the upstream knows.
func IsChamber(s string) bool {
	switch strings.ToLower(s) {
	case "house", "senate", "joint":
		return true
	default:
		return false
	}
}
