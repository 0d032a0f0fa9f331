package congress

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// Bill normalises a single-bill response.
func (n *Normaliser) Bill(raw domain.Object) (domain.Bill, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	bill := n.bill(newFields(record(raw, "bill"), "", &diags))
	return bill, diags
}

// Bills normalises a bill list response.
func (n *Normaliser) Bills(raw domain.Object) ([]domain.Bill, []domain.Diagnostic) {
	diags := []domain.Diagnostic{}
	items, ok := list(raw, "bills")
	if !ok {
		diags = append(diags, domain.Diagnostic{Field: "bills", Reason: "missing list"})
	}

	bills := make([]domain.Bill, 0, len(items))
	for i, item := range items {
		bills = append(bills, n.bill(newFields(item, fmt.Sprintf("bills[%d].", i), &diags)))
	}
	return bills, diags
}

func (n *Normaliser) bill(f fields) domain.Bill {
	b := domain.Bill{
		Congress:       f.requiredInt("congress"),
		Type:           domain.NormaliseBillType(f.requiredStr("type", "billType")),
		Number:         f.requiredStr("number", "billNumber"),
		Title:          f.requiredStr("title"),
		OriginChamber:  chamber(f.str("originChamber", "originChamberCode")),
		IntroducedDate: f.date("introducedDate"),
		PolicyArea:     f.at("policyArea").str("name"),
		CosponsorCount: cosponsorCount(f),
		UpdatedAt:      f.date("updateDateIncludingText", "updateDate"),
		URL:            f.str("url"),
		Timeline:       timeline(f),
		Subjects:       subjects(f),
		Summary:        summary(f),
	}

	if b.Congress > 0 && b.Type != "" && b.Number != "" {
		b.ID = domain.BillID{Congress: b.Congress, Type: b.Type, Number: b.Number}.String()
	}

	if sponsors, ok := list(f.obj, "sponsors"); ok && len(sponsors) > 0 {
		b.Sponsor = memberRef(newFields(sponsors[0], f.prefix+"sponsors[0].", f.diags))
	}

	b.LatestAction = latestAction(f, b.Timeline)
	b.Stage = domain.InferStage(b.LatestAction.Text)
	b.IsActive = domain.IsActiveAction(b.LatestAction.Text)
	return b
}

func memberRef(f fields) domain.MemberRef {
	return domain.MemberRef{
		BioguideID: f.requiredStr("bioguideId"),
		Name:       f.str("fullName", "name", "directOrderName"),
		Party:      f.str("party", "partyCode"),
		State:      stateCode(f.str("state", "stateCode")),
	}
}

func cosponsorCount(f fields) int {
	if f.obj.Lookup("cosponsors").Kind() == domain.KindObject {
		return f.at("cosponsors").integer("count")
	}
	return f.integer("cosponsorsCount")
}

// latestAction prefers the upstream's latestAction and falls back to the
// most recent timeline entry.
func latestAction(f fields, timeline []domain.Milestone) domain.Action {
	la := f.at("latestAction")
	if text := la.str("text"); text != "" {
		return domain.Action{Date: la.date("actionDate"), Text: text}
	}

	var latest *domain.Milestone
	for i := range timeline {
		if latest == nil || timeline[i].Date.After(latest.Date) {
			latest = &timeline[i]
		}
	}
	if latest == nil {
		f.note("latestAction", "missing")
		return domain.Action{}
	}
	return domain.Action{Date: latest.Date, Text: latest.Text}
}

// timeline keeps the upstream action order.
func timeline(f fields) []domain.Milestone {
	actions, _ := list(f.obj, "actions")
	out := make([]domain.Milestone, 0, len(actions))
	for i, action := range actions {
		a := newFields(action, fmt.Sprintf("%sactions[%d].", f.prefix, i), f.diags)
		out = append(out, domain.Milestone{
			Date:       a.date("actionDate"),
			Text:       a.str("text"),
			Category:   categorise(a.str("type")),
			ActionCode: a.str("actionCode"),
			Chamber:    actionChamber(a),
		})
	}
	return out
}

func actionChamber(a fields) string {
	if c := a.str("chamber"); c != "" {
		return chamber(c)
	}
	source := strings.ToLower(a.at("sourceSystem").str("name"))
	switch {
	case strings.HasPrefix(source, "house"):
		return "house"
	case strings.HasPrefix(source, "senate"):
		return "senate"
	default:
		return ""
	}
}

// subjects accepts a list of names, a list of {name} objects, or the
// upstream's {legislativeSubjects: [...]} wrapper.
func subjects(f fields) []string {
	v := f.obj.Lookup("subjects")
	if obj, ok := v.AsObject(); ok {
		if inner := obj.Lookup("legislativeSubjects"); !inner.IsNull() {
			v = inner
		}
	}

	out := []string{}
	arr, ok := v.AsArray()
	if !ok {
		if objs, ok := objects(v); ok {
			for _, o := range objs {
				if name, ok := o.Lookup("name").AsString(); ok && name != "" {
					out = append(out, name)
				}
			}
		}
		return out
	}
	for _, item := range arr {
		if s, ok := item.AsString(); ok && s != "" {
			out = append(out, s)
			continue
		}
		if o, ok := item.AsObject(); ok {
			if name, ok := o.Lookup("name").AsString(); ok && name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// summary prefers a plain summary string, then the last entry of the
// summaries list, which is the most recent version.
func summary(f fields) string {
	if s := f.str("summary"); s != "" {
		return s
	}
	summaries, _ := list(f.obj, "summaries")
	if len(summaries) == 0 {
		return ""
	}
	last := summaries[len(summaries)-1]
	text, _ := last.Lookup("text").AsString()
	return stripTags(text)
}

// stripTags removes the simple HTML markup summaries are delivered in and
// decodes its character entities.
func stripTags(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(sb.String())), " ")
}

// ordinal formats a congress number as "118th".
func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
