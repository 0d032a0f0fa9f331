package congress

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// partyCodes maps party names to the single-letter codes used in bylines.
var partyCodes = map[string]string{
	"democratic":           "D",
	"democrat":             "D",
	"republican":           "R",
	"independent":          "I",
	"libertarian":          "L",
	"independent democrat": "ID",
}

// Member normalises a single-member response.
func (n *Normaliser) Member(raw domain.Object) (domain.Member, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	m := n.member(newFields(record(raw, "member"), "", &diags))
	return m, diags
}

// Members normalises a member list response.
func (n *Normaliser) Members(raw domain.Object) ([]domain.Member, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	items, ok := list(raw, "members")
	if !ok {
		diags = append(diags, domain.Diagnostic{Field: "members", Reason: "missing list"})
	}

	members := make([]domain.Member, 0, len(items))
	for i, item := range items {
		members = append(members, n.member(newFields(item, fmt.Sprintf("members[%d].", i), &diags)))
	}
	return members, diags
}

func (n *Normaliser) member(f fields) domain.Member {
	m := domain.Member{
		BioguideID: strings.ToUpper(f.requiredStr("bioguideId")),
		FirstName:  f.str("firstName"),
		LastName:   f.str("lastName"),
		ImageURL:   f.at("depiction").str("imageUrl"),
		Current:    f.boolean("currentMember", true),
		URL:        f.str("url"),
		Terms:      terms(f),
	}

	m.Name = memberName(f, m.FirstName, m.LastName)
	if m.Name == "" {
		f.note("name", "missing")
	}

	m.PartyName, m.Party = party(f)

	state := f.str("stateCode", "state")
	district := f.integer("district")
	if len(m.Terms) > 0 {
		latest := m.Terms[len(m.Terms)-1]
		m.Chamber = latest.Chamber
		if state == "" {
			state = latest.State
		}
		if district == 0 {
			district = latest.District
		}
	}
	m.State = stateCode(state)
	m.District = district
	return m
}

// memberName falls back through name, directOrderName and first+last.
// The list endpoint's "Last, First" form is turned into direct order.
func memberName(f fields, first, last string) string {
	if name := f.str("directOrderName"); name != "" {
		return name
	}
	if name := f.str("name"); name != "" {
		if lastPart, firstPart, ok := strings.Cut(name, ", "); ok {
			return firstPart + " " + lastPart
		}
		return name
	}
	return strings.TrimSpace(first + " " + last)
}

// party returns the party name and code, preferring the most recent entry
// of the party history.
func party(f fields) (name, code string) {
	name = f.str("partyName")
	code = f.str("party")
	if history, ok := list(f.obj, "partyHistory"); ok && len(history) > 0 {
		latest := newFields(history[len(history)-1], f.prefix+"partyHistory.", f.diags)
		if n := latest.str("partyName"); n != "" {
			name = n
		}
		if c := latest.str("partyAbbreviation"); c != "" {
			code = c
		}
	}

	if len(code) > 2 {
		// Some payloads carry the full name in "party".
		if name == "" {
			name = code
		}
		code = ""
	}
	if code == "" && name != "" {
		code = partyCodes[strings.ToLower(name)]
	}
	return name, strings.ToUpper(code)
}

// terms keeps the upstream order, which is chronological.
func terms(f fields) []domain.Term {
	items, _ := list(f.obj, "terms")
	out := make([]domain.Term, 0, len(items))
	for i, item := range items {
		t := newFields(item, fmt.Sprintf("%sterms[%d].", f.prefix, i), f.diags)
		out = append(out, domain.Term{
			Chamber:   chamber(t.str("chamber", "memberType")),
			Congress:  t.integer("congress"),
			StartYear: t.integer("startYear"),
			EndYear:   t.integer("endYear"),
			State:     stateCode(t.str("stateCode", "stateName")),
			District:  t.integer("district"),
		})
	}
	return out
}
