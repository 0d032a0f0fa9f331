package congress

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/legis/internal/core/domain"
)

const dateLayout = "2006-01-02"

// BillText renders a bill as structured Markdown for the analysis
// collaborator. Only canonical fields are used, so the same bill always
// renders identically.
func (n *Normaliser) BillText(b domain.Bill) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s %s: %s\n\n", strings.ToUpper(b.Type), b.Number, orPlaceholder(b.Title, "Untitled")))
	if b.Congress > 0 {
		sb.WriteString(fmt.Sprintf("*%s Congress", ordinal(b.Congress)))
		if b.OriginChamber != "" {
			sb.WriteString(fmt.Sprintf(" | Origin: %s", b.OriginChamber))
		}
		sb.WriteString("*\n\n")
	}

	status := "inactive"
	if b.IsActive {
		status = "active"
	}
	sb.WriteString(fmt.Sprintf("**Stage:** %s | **Status:** %s", b.Stage, status))
	if b.Sponsor.Name != "" {
		sb.WriteString(fmt.Sprintf(" | **Sponsor:** %s", b.Sponsor.Name))
	}
	if b.CosponsorCount > 0 {
		sb.WriteString(fmt.Sprintf(" | **Cosponsors:** %d", b.CosponsorCount))
	}
	if b.PolicyArea != "" {
		sb.WriteString(fmt.Sprintf(" | **Policy area:** %s", b.PolicyArea))
	}
	sb.WriteString("\n\n")

	if !b.IntroducedDate.IsZero() {
		sb.WriteString(fmt.Sprintf("*Introduced: %s*\n\n", b.IntroducedDate.Format(dateLayout)))
	}

	// Latest action
	sb.WriteString("## Latest Action\n\n")
	if b.LatestAction.Text != "" {
		sb.WriteString(fmt.Sprintf("%s%s\n\n", datePrefix(b.LatestAction.Date.Format(dateLayout), b.LatestAction.Date.IsZero()), b.LatestAction.Text))
	} else {
		sb.WriteString("*No action recorded.*\n\n")
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(orPlaceholder(b.Summary, "*No summary available.*"))
	sb.WriteString("\n\n")

	// Subjects
	if len(b.Subjects) > 0 {
		sb.WriteString("## Subjects\n\n")
		for _, s := range b.Subjects {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
		sb.WriteString("\n")
	}

	// Timeline
	if len(b.Timeline) > 0 {
		sb.WriteString("## Timeline\n\n")
		for _, m := range b.Timeline {
			sb.WriteString(fmt.Sprintf("- %s[%s] %s\n", datePrefix(m.Date.Format(dateLayout), m.Date.IsZero()), m.Category, m.Text))
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func datePrefix(date string, zero bool) string {
	if zero {
		return ""
	}
	return date + ": "
}
