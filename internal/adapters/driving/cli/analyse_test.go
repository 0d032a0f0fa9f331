package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/core/domain"
)

func TestAnalyseCmd(t *testing.T) {
	analysis := &mockAnalysisService{req: &domain.AnalysisRequest{
		Type:   domain.AnalysisImpact,
		BillID: "118-hr-1234",
		Text:   "# HR 1234: Clean Water Infrastructure Act\n",
	}}

	stdout, stderr, err := runCommand(t, &Services{Analysis: analysis}, "analyse", "118-hr-1234", "--type", "impact")

	require.NoError(t, err)
	assert.Equal(t, "118-hr-1234", analysis.lastID)
	assert.Equal(t, "impact", analysis.lastType)
	assert.Equal(t, "# HR 1234: Clean Water Infrastructure Act\n", stdout)
	assert.Empty(t, stderr)
}

func TestAnalyseCmd_DefaultsToSummary(t *testing.T) {
	analysis := &mockAnalysisService{req: &domain.AnalysisRequest{Type: domain.AnalysisSummary, Degraded: true}}

	_, stderr, err := runCommand(t, &Services{Analysis: analysis}, "analyze", "118-hr-1234")

	require.NoError(t, err)
	assert.Equal(t, "summary", analysis.lastType)
	assert.Contains(t, stderr, "prepared from offline data")
}

func TestAnalyseCmd_UnsupportedType(t *testing.T) {
	analysis := &mockAnalysisService{err: domain.ErrUnsupportedType}

	_, _, err := runCommand(t, &Services{Analysis: analysis}, "analyse", "118-hr-1234", "-t", "poetry")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestAnalysisTypeNames(t *testing.T) {
	assert.Equal(t, []string{"summary", "impact", "comparison", "legal"}, analysisTypeNames())
}
