package congress

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// Committee normalises a single-committee response.
func (n *Normaliser) Committee(raw domain.Object) (domain.Committee, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	c := n.committee(newFields(record(raw, "committee"), "", &diags))
	return c, diags
}

// Committees normalises a committee list response.
func (n *Normaliser) Committees(raw domain.Object) ([]domain.Committee, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	items, ok := list(raw, "committees")
	if !ok {
		diags = append(diags, domain.Diagnostic{Field: "committees", Reason: "missing list"})
	}

	committees := make([]domain.Committee, 0, len(items))
	for i, item := range items {
		committees = append(committees, n.committee(newFields(item, fmt.Sprintf("committees[%d].", i), &diags)))
	}
	return committees, diags
}

func (n *Normaliser) committee(f fields) domain.Committee {
	c := domain.Committee{
		Code:          strings.ToLower(f.requiredStr("systemCode")),
		Name:          committeeName(f),
		Chamber:       chamber(f.str("chamber")),
		Type:          f.str("committeeTypeCode", "type"),
		ParentCode:    strings.ToLower(f.at("parent").str("systemCode")),
		Current:       f.boolean("isCurrent", true),
		URL:           f.str("url"),
		Subcommittees: subcommittees(f),
	}
	if c.Name == "" {
		f.note("name", "missing")
	}
	if c.Chamber == "" {
		c.Chamber = chamberFromCode(c.Code)
	}
	return c
}

// committeeName prefers the current name, then the most recent official
// name in the history.
func committeeName(f fields) string {
	if name := f.str("name"); name != "" {
		return name
	}
	history, _ := list(f.obj, "history")
	for i := len(history) - 1; i >= 0; i-- {
		h := newFields(history[i], f.prefix+"history.", f.diags)
		if name := h.str("officialName", "libraryOfCongressName"); name != "" {
			return name
		}
	}
	return ""
}

func subcommittees(f fields) []domain.CommitteeRef {
	items, _ := list(f.obj, "subcommittees")
	out := make([]domain.CommitteeRef, 0, len(items))
	for _, item := range items {
		s := newFields(item, f.prefix+"subcommittees.", f.diags)
		out = append(out, domain.CommitteeRef{
			Code: strings.ToLower(s.str("systemCode")),
			Name: s.str("name"),
		})
	}
	return out
}

// chamberFromCode reads the chamber from a system code prefix ("hsag00",
// "ssfi00", "jsec00").
func chamberFromCode(code string) string {
	switch {
	case strings.HasPrefix(code, "h"):
		return "house"
	case strings.HasPrefix(code, "s"):
		return "senate"
	case strings.HasPrefix(code, "j"):
		return "joint"
	default:
		return ""
	}
}
