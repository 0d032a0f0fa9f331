package congress

import (
	"strings"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// actionCategories maps the upstream action type to a milestone category.
var actionCategories = map[string]domain.MilestoneCategory{
	"introreferral":        domain.CategoryIntroduction,
	"committee":            domain.CategoryCommittee,
	"discharge":            domain.CategoryCommittee,
	"calendars":            domain.CategoryCalendar,
	"floor":                domain.CategoryFloor,
	"president":            domain.CategoryPresident,
	"becamelaw":            domain.CategoryLaw,
	"veto":                 domain.CategoryVeto,
	"resolvingdifferences": domain.CategoryConference,
}

// categorise returns the milestone category of an action type.
func categorise(actionType string) domain.MilestoneCategory {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(actionType), " ", ""))
	if c, ok := actionCategories[key]; ok {
		return c
	}
	return domain.CategoryOther
}
