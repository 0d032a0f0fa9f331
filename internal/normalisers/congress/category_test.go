package congress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/legis/internal/core/domain"
)

func TestCategorise(t *testing.T) {
	assert.Equal(t, domain.CategoryIntroduction, categorise("IntroReferral"))
	assert.Equal(t, domain.CategoryCommittee, categorise("Committee"))
	assert.Equal(t, domain.CategoryCalendar, categorise("Calendars"))
	assert.Equal(t, domain.CategoryFloor, categorise("Floor"))
	assert.Equal(t, domain.CategoryPresident, categorise("President"))
	assert.Equal(t, domain.CategoryLaw, categorise("BecameLaw"))
	assert.Equal(t, domain.CategoryVeto, categorise("Veto"))
	assert.Equal(t, domain.CategoryConference, categorise("ResolvingDifferences"))
	assert.Equal(t, domain.CategoryOther, categorise("NotUsed"))
	assert.Equal(t, domain.CategoryOther, categorise(""))
}
