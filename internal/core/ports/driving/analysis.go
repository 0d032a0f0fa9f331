package driving

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// AnalysisService prepares inputs for the external analysis collaborator.
// It supplies canonical text and validates the analysis type; it never
// builds prompts or calls a language model.
type AnalysisService interface {
	// Prepare loads a bill and renders its canonical text for analysis.
	// Returns domain.ErrUnsupportedType for unknown analysis types.
	Prepare(ctx context.Context, billID string, analysisType string) (*domain.AnalysisRequest, error)

	// Types returns the supported analysis types.
	Types() []domain.AnalysisType
}
