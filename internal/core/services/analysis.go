package services

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/core/ports/driving"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService supplies canonical bill text to the analysis collaborator.
type AnalysisService struct {
	records driving.RecordService
	canon   driven.Canonicalizer
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(records driving.RecordService, canon driven.Canonicalizer) *AnalysisService {
	return &AnalysisService{records: records, canon: canon}
}

// Prepare validates the analysis type, loads the bill and renders its text.
// The type is checked first so an unsupported request never costs an
// upstream call.
func (s *AnalysisService) Prepare(
	ctx context.Context,
	billID string,
	analysisType string,
) (*domain.AnalysisRequest, error) {
	t, err := domain.ParseAnalysisType(analysisType)
	if err != nil {
		return nil, err
	}

	res, err := s.records.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisRequest{
		Type:     t,
		BillID:   res.Value.ID,
		Title:    res.Value.Title,
		Text:     s.canon.BillText(res.Value),
		Degraded: res.Degraded,
	}, nil
}

// Types returns the supported analysis types.
func (s *AnalysisService) Types() []domain.AnalysisType {
	return domain.AllAnalysisTypes()
}
