package congress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliser_Committee(t *testing.T) {
	raw := mustParse(t, `{"committee": {
		"systemCode": "HSAG00",
		"type": "Standing",
		"isCurrent": true,
		"history": [
			{"officialName": "Committee on Agriculture (old)"},
			{"officialName": "Committee on Agriculture"}
		],
		"subcommittees": [{"systemCode": "hsag15", "name": "Conservation and Forestry"}],
		"url": "https://api.congress.gov/v3/committee/house/hsag00"
	}}`)

	c, diags := New().Committee(raw)

	assert.Empty(t, diags)
	assert.Equal(t, "hsag00", c.Code)
	assert.Equal(t, "Committee on Agriculture", c.Name)
	assert.Equal(t, "house", c.Chamber)
	assert.Equal(t, "Standing", c.Type)
	assert.True(t, c.Current)
	require.Len(t, c.Subcommittees, 1)
	assert.Equal(t, "hsag15", c.Subcommittees[0].Code)
	assert.Equal(t, "house/hsag00", c.Identifier())
}

func TestNormaliser_Committees(t *testing.T) {
	raw := mustParse(t, `{"committees": [
		{"systemCode": "ssfi00", "name": "Finance Committee", "chamber": "Senate", "committeeTypeCode": "Standing"},
		{"systemCode": "ssfi10", "name": "Taxation", "chamber": "Senate", "parent": {"systemCode": "ssfi00"}, "isCurrent": false}
	]}`)

	committees, diags := New().Committees(raw)

	assert.Empty(t, diags)
	require.Len(t, committees, 2)
	assert.Equal(t, "senate", committees[0].Chamber)
	assert.NotNil(t, committees[0].Subcommittees)
	assert.Equal(t, "ssfi00", committees[1].ParentCode)
	assert.False(t, committees[1].Current)
}

func TestNormaliser_Committee_MissingName(t *testing.T) {
	c, diags := New().Committee(mustParse(t, `{"committee": {"systemCode": "jsec00"}}`))

	assert.Equal(t, "joint", c.Chamber)
	require.Len(t, diags, 1)
	assert.Equal(t, "name", diags[0].Field)
}
