package cli

import (
	"context"

	"github.com/custodia-labs/legis/internal/core/domain"
)

// mockRecordService is a mock implementation of driving.RecordService.
type mockRecordService struct {
	bill       domain.Bill
	bills      []domain.Bill
	member     domain.Member
	members    []domain.Member
	committee  domain.Committee
	committees []domain.Committee
	origin     domain.Origin
	degraded   bool
	err        error
	removed    int

	lastID       string
	lastCongress int
	lastPage     domain.Page
	lastChamber  string
	lastPrefix   string
}

func result[T any](m *mockRecordService, v T) domain.Result[T] {
	origin := m.origin
	if origin == "" {
		origin = domain.OriginLive
	}
	mode := domain.ModeLive
	if m.degraded {
		mode = domain.ModeStatic
	}
	return domain.Result[T]{Value: v, Origin: origin, Mode: mode, Degraded: m.degraded}
}

func (m *mockRecordService) GetBill(_ context.Context, id string) (domain.Result[domain.Bill], error) {
	m.lastID = id
	return result(m, m.bill), m.err
}

func (m *mockRecordService) ListBills(_ context.Context, congress int, page domain.Page) (domain.Result[[]domain.Bill], error) {
	m.lastCongress = congress
	m.lastPage = page
	return result(m, m.bills), m.err
}

func (m *mockRecordService) GetMember(_ context.Context, id string) (domain.Result[domain.Member], error) {
	m.lastID = id
	return result(m, m.member), m.err
}

func (m *mockRecordService) MembersByState(_ context.Context, state string) (domain.Result[[]domain.Member], error) {
	m.lastID = state
	return result(m, m.members), m.err
}

func (m *mockRecordService) GetCommittee(_ context.Context, chamber, code string) (domain.Result[domain.Committee], error) {
	m.lastChamber = chamber
	m.lastID = code
	return result(m, m.committee), m.err
}

func (m *mockRecordService) ListCommittees(_ context.Context, chamber string) (domain.Result[[]domain.Committee], error) {
	m.lastChamber = chamber
	return result(m, m.committees), m.err
}

func (m *mockRecordService) Invalidate(prefix string) int {
	m.lastPrefix = prefix
	return m.removed
}

func (m *mockRecordService) Mode() domain.HealthMode {
	return domain.ModeLive
}

// mockHealthService is a mock implementation of driving.HealthService.
type mockHealthService struct {
	status  domain.HealthStatus
	probed  domain.HealthStatus
	budgets []domain.RateBudgetStats
	err     error

	probes int
}

func (m *mockHealthService) Status() domain.HealthStatus {
	return m.status
}

func (m *mockHealthService) Probe(_ context.Context) (domain.HealthStatus, error) {
	m.probes++
	return m.probed, m.err
}

func (m *mockHealthService) RateBudgets() []domain.RateBudgetStats {
	return m.budgets
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	req *domain.AnalysisRequest
	err error

	lastID   string
	lastType string
}

func (m *mockAnalysisService) Prepare(_ context.Context, billID, analysisType string) (*domain.AnalysisRequest, error) {
	m.lastID = billID
	m.lastType = analysisType
	return m.req, m.err
}

func (m *mockAnalysisService) Types() []domain.AnalysisType {
	return domain.AllAnalysisTypes()
}
