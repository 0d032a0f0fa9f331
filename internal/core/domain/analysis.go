package domain

import (
	"fmt"
	"strings"
)

// AnalysisType selects the kind of natural-language analysis requested.
type AnalysisType string

// Analysis types.
const (
	AnalysisSummary    AnalysisType = "summary"
	AnalysisImpact     AnalysisType = "impact"
	AnalysisComparison AnalysisType = "comparison"
	AnalysisLegal      AnalysisType = "legal"
)

// AllAnalysisTypes returns the fixed enumeration of analysis types.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{AnalysisSummary, AnalysisImpact, AnalysisComparison, AnalysisLegal}
}

// ParseAnalysisType validates s against the fixed enumeration.
func ParseAnalysisType(s string) (AnalysisType, error) {
	t := AnalysisType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllAnalysisTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: analysis type %q", ErrUnsupportedType, s)
}

// AnalysisRequest is what the analysis collaborator receives: canonical
// bill text and the selected analysis type. Nothing else.
type AnalysisRequest struct {
	Type     AnalysisType `json:"type"`
	BillID   string       `json:"bill_id"`
	Title    string       `json:"title"`
	Text     string       `json:"text"`
	Degraded bool         `json:"degraded"`
}
