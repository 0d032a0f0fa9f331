package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/legis/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Provenance says where an answer came from.
type Provenance struct {
	Origin   string `json:"origin" jsonschema:"live, cache or static"`
	Mode     string `json:"mode" jsonschema:"upstream health mode: live, degraded or static"`
	Degraded bool   `json:"degraded" jsonschema:"true when the data may be stale"`
}

// BillInput is the input schema for the get_bill tool.
type BillInput struct {
	BillID string `json:"bill_id" jsonschema:"bill ID as <congress>-<type>-<number>, e.g. 118-hr-1234"`
}

// BillListInput is the input schema for the list_bills tool.
type BillListInput struct {
	Congress int `json:"congress" jsonschema:"congress number, e.g. 118"`
	Limit    int `json:"limit,omitempty" jsonschema:"maximum number of bills (default 20, max 250)"`
	Offset   int `json:"offset,omitempty" jsonschema:"number of bills to skip"`
}

// MemberInput is the input schema for the get_member tool.
type MemberInput struct {
	BioguideID string `json:"bioguide_id" jsonschema:"bioguide ID, e.g. D000096"`
}

// StateInput is the input schema for the members_by_state tool.
type StateInput struct {
	State string `json:"state" jsonschema:"two-letter state code, e.g. IL"`
}

// CommitteeInput is the input schema for the get_committee tool.
type CommitteeInput struct {
	Chamber string `json:"chamber" jsonschema:"house, senate or joint"`
	Code    string `json:"code" jsonschema:"committee system code, e.g. hsag00"`
}

// ChamberInput is the input schema for the list_committees tool.
type ChamberInput struct {
	Chamber string `json:"chamber" jsonschema:"house, senate or joint"`
}

// AnalysisInput is the input schema for the prepare_bill_analysis tool.
type AnalysisInput struct {
	BillID       string `json:"bill_id" jsonschema:"bill ID as <congress>-<type>-<number>"`
	AnalysisType string `json:"analysis_type" jsonschema:"one of summary, impact, comparison, legal"`
}

// StatusInput is the empty input of the upstream_status tool.
type StatusInput struct{}

// BillOutput represents a single bill.
type BillOutput struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Congress         int      `json:"congress"`
	Type             string   `json:"type"`
	Number           string   `json:"number"`
	OriginChamber    string   `json:"origin_chamber,omitempty"`
	IntroducedDate   string   `json:"introduced_date,omitempty"`
	Sponsor          string   `json:"sponsor,omitempty"`
	CosponsorCount   int      `json:"cosponsor_count"`
	PolicyArea       string   `json:"policy_area,omitempty"`
	Stage            string   `json:"stage"`
	IsActive         bool     `json:"is_active"`
	LatestAction     string   `json:"latest_action,omitempty"`
	LatestActionDate string   `json:"latest_action_date,omitempty"`
	Subjects         []string `json:"subjects,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	URL              string   `json:"url,omitempty"`
}

// GetBillOutput is the output schema for the get_bill tool.
type GetBillOutput struct {
	Bill       BillOutput `json:"bill"`
	Provenance Provenance `json:"provenance"`
}

// ListBillsOutput is the output schema for the list_bills tool.
type ListBillsOutput struct {
	Bills      []BillOutput `json:"bills"`
	Count      int          `json:"count"`
	Provenance Provenance   `json:"provenance"`
}

// MemberOutput represents a single member.
type MemberOutput struct {
	BioguideID string `json:"bioguide_id"`
	Name       string `json:"name"`
	Party      string `json:"party,omitempty"`
	State      string `json:"state"`
	District   int    `json:"district,omitempty"`
	Chamber    string `json:"chamber,omitempty"`
	Current    bool   `json:"current"`
}

// GetMemberOutput is the output schema for the get_member tool.
type GetMemberOutput struct {
	Member     MemberOutput `json:"member"`
	Provenance Provenance   `json:"provenance"`
}

// ListMembersOutput is the output schema for the members_by_state tool.
type ListMembersOutput struct {
	Members    []MemberOutput `json:"members"`
	Count      int            `json:"count"`
	Provenance Provenance     `json:"provenance"`
}

// CommitteeOutput represents a single committee.
type CommitteeOutput struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Chamber       string   `json:"chamber"`
	Type          string   `json:"type,omitempty"`
	Parent        string   `json:"parent,omitempty"`
	Subcommittees []string `json:"subcommittees,omitempty"`
	Current       bool     `json:"current"`
}

// GetCommitteeOutput is the output schema for the get_committee tool.
type GetCommitteeOutput struct {
	Committee  CommitteeOutput `json:"committee"`
	Provenance Provenance      `json:"provenance"`
}

// ListCommitteesOutput is the output schema for the list_committees tool.
type ListCommitteesOutput struct {
	Committees []CommitteeOutput `json:"committees"`
	Count      int               `json:"count"`
	Provenance Provenance        `json:"provenance"`
}

// StatusOutput is the output schema for the upstream_status tool.
type StatusOutput struct {
	Mode                string         `json:"mode"`
	Description         string         `json:"description"`
	FailureRatio        float64        `json:"failure_ratio"`
	Successes           int            `json:"successes"`
	Failures            int            `json:"failures"`
	ConsecutiveFailures int            `json:"consecutive_failures"`
	LastTransition      string         `json:"last_transition,omitempty"`
	LastProbeError      string         `json:"last_probe_error,omitempty"`
	Budgets             []BudgetOutput `json:"rate_budgets"`
}

// BudgetOutput represents one outbound rate budget.
type BudgetOutput struct {
	Budget    string `json:"budget"`
	Ceiling   int    `json:"ceiling"`
	Effective int    `json:"effective"`
	Window    string `json:"window"`
	InWindow  int    `json:"in_window"`
	Waiting   int    `json:"waiting"`
}

// AnalysisOutput is the output schema for the prepare_bill_analysis tool.
type AnalysisOutput struct {
	AnalysisType string `json:"analysis_type"`
	BillID       string `json:"bill_id"`
	Title        string `json:"title"`
	Text         string `json:"text"`
	Degraded     bool   `json:"degraded"`
}

// Tool definitions, in the order the server lists them.
var (
	getBillTool = &mcp.Tool{
		Name:        "get_bill",
		Description: "Get one bill with its inferred stage, sponsor and latest action",
	}
	listBillsTool = &mcp.Tool{
		Name:        "list_bills",
		Description: "List a page of the bills of a congress",
	}
	getMemberTool = &mcp.Tool{
		Name:        "get_member",
		Description: "Get one member of Congress by bioguide ID",
	}
	membersByStateTool = &mcp.Tool{
		Name:        "members_by_state",
		Description: "List the current members representing a state",
	}
	getCommitteeTool = &mcp.Tool{
		Name:        "get_committee",
		Description: "Get one committee and its subcommittees",
	}
	listCommitteesTool = &mcp.Tool{
		Name:        "list_committees",
		Description: "List the committees of a chamber",
	}
	upstreamStatusTool = &mcp.Tool{
		Name:        "upstream_status",
		Description: "Report whether the live congress.gov API is healthy or offline data is in use",
	}
	prepareBillAnalysisTool = &mcp.Tool{
		Name:        "prepare_bill_analysis",
		Description: "Get the canonical text of a bill for a summary, impact, comparison or legal analysis",
	}
)

func toolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		getBillTool,
		listBillsTool,
		getMemberTool,
		membersByStateTool,
		getCommitteeTool,
		listCommitteesTool,
		upstreamStatusTool,
		prepareBillAnalysisTool,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, getBillTool, s.handleGetBill)
	mcp.AddTool(s.server, listBillsTool, s.handleListBills)
	mcp.AddTool(s.server, getMemberTool, s.handleGetMember)
	mcp.AddTool(s.server, membersByStateTool, s.handleMembersByState)
	mcp.AddTool(s.server, getCommitteeTool, s.handleGetCommittee)
	mcp.AddTool(s.server, listCommitteesTool, s.handleListCommittees)
	mcp.AddTool(s.server, upstreamStatusTool, s.handleUpstreamStatus)
	mcp.AddTool(s.server, prepareBillAnalysisTool, s.handlePrepareAnalysis)
}

func (s *Server) handleGetBill(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BillInput,
) (*mcp.CallToolResult, GetBillOutput, error) {
	res, err := s.ports.Records.GetBill(ctx, input.BillID)
	if err != nil {
		return nil, GetBillOutput{}, err
	}
	return nil, GetBillOutput{Bill: billOutput(res.Value), Provenance: provenance(res)}, nil
}

func (s *Server) handleListBills(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BillListInput,
) (*mcp.CallToolResult, ListBillsOutput, error) {
	page := domain.Page{Limit: input.Limit, Offset: input.Offset}
	res, err := s.ports.Records.ListBills(ctx, input.Congress, page)
	if err != nil {
		return nil, ListBillsOutput{}, err
	}

	output := ListBillsOutput{
		Bills:      make([]BillOutput, len(res.Value)),
		Count:      len(res.Value),
		Provenance: provenance(res),
	}
	for i := range res.Value {
		output.Bills[i] = billOutput(res.Value[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetMember(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MemberInput,
) (*mcp.CallToolResult, GetMemberOutput, error) {
	res, err := s.ports.Records.GetMember(ctx, input.BioguideID)
	if err != nil {
		return nil, GetMemberOutput{}, err
	}
	return nil, GetMemberOutput{Member: memberOutput(res.Value), Provenance: provenance(res)}, nil
}

func (s *Server) handleMembersByState(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StateInput,
) (*mcp.CallToolResult, ListMembersOutput, error) {
	res, err := s.ports.Records.MembersByState(ctx, input.State)
	if err != nil {
		return nil, ListMembersOutput{}, err
	}

	output := ListMembersOutput{
		Members:    make([]MemberOutput, len(res.Value)),
		Count:      len(res.Value),
		Provenance: provenance(res),
	}
	for i := range res.Value {
		output.Members[i] = memberOutput(res.Value[i])
	}
	return nil, output, nil
}

func (s *Server) handleGetCommittee(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CommitteeInput,
) (*mcp.CallToolResult, GetCommitteeOutput, error) {
	res, err := s.ports.Records.GetCommittee(ctx, input.Chamber, input.Code)
	if err != nil {
		return nil, GetCommitteeOutput{}, err
	}
	return nil, GetCommitteeOutput{Committee: committeeOutput(res.Value), Provenance: provenance(res)}, nil
}

func (s *Server) handleListCommittees(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChamberInput,
) (*mcp.CallToolResult, ListCommitteesOutput, error) {
	res, err := s.ports.Records.ListCommittees(ctx, input.Chamber)
	if err != nil {
		return nil, ListCommitteesOutput{}, err
	}

	output := ListCommitteesOutput{
		Committees: make([]CommitteeOutput, len(res.Value)),
		Count:      len(res.Value),
		Provenance: provenance(res),
	}
	for i := range res.Value {
		output.Committees[i] = committeeOutput(res.Value[i])
	}
	return nil, output, nil
}

func (s *Server) handleUpstreamStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if s.ports.Health == nil {
		return nil, StatusOutput{}, ErrHealthUnavailable
	}

	h := s.ports.Health.Status()
	output := StatusOutput{
		Mode:                string(h.Mode),
		Description:         h.Mode.Description(),
		FailureRatio:        h.FailureRatio,
		Successes:           h.Successes,
		Failures:            h.Failures,
		ConsecutiveFailures: h.ConsecutiveFailures,
		LastTransition:      formatTime(h.LastTransition, time.RFC3339),
		LastProbeError:      h.LastProbeError,
		Budgets:             []BudgetOutput{},
	}
	for _, b := range s.ports.Health.RateBudgets() {
		output.Budgets = append(output.Budgets, BudgetOutput{
			Budget:    b.Budget,
			Ceiling:   b.Ceiling,
			Effective: b.Effective,
			Window:    b.Window.String(),
			InWindow:  b.InWindow,
			Waiting:   b.Waiting,
		})
	}
	return nil, output, nil
}

func (s *Server) handlePrepareAnalysis(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalysisInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	if s.ports.Analysis == nil {
		return nil, AnalysisOutput{}, ErrAnalysisUnavailable
	}

	req, err := s.ports.Analysis.Prepare(ctx, input.BillID, input.AnalysisType)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{
		AnalysisType: string(req.Type),
		BillID:       req.BillID,
		Title:        req.Title,
		Text:         req.Text,
		Degraded:     req.Degraded,
	}, nil
}

func provenance[T any](res domain.Result[T]) Provenance {
	return Provenance{
		Origin:   string(res.Origin),
		Mode:     string(res.Mode),
		Degraded: res.Degraded,
	}
}

func billOutput(b domain.Bill) BillOutput {
	return BillOutput{
		ID:               b.ID,
		Title:            b.Title,
		Congress:         b.Congress,
		Type:             b.Type,
		Number:           b.Number,
		OriginChamber:    b.OriginChamber,
		IntroducedDate:   formatTime(b.IntroducedDate, dateLayout),
		Sponsor:          b.Sponsor.Name,
		CosponsorCount:   b.CosponsorCount,
		PolicyArea:       b.PolicyArea,
		Stage:            string(b.Stage),
		IsActive:         b.IsActive,
		LatestAction:     b.LatestAction.Text,
		LatestActionDate: formatTime(b.LatestAction.Date, dateLayout),
		Subjects:         b.Subjects,
		Summary:          b.Summary,
		URL:              b.URL,
	}
}

func memberOutput(m domain.Member) MemberOutput {
	return MemberOutput{
		BioguideID: m.BioguideID,
		Name:       m.Name,
		Party:      m.Party,
		State:      m.State,
		District:   m.District,
		Chamber:    m.Chamber,
		Current:    m.Current,
	}
}

func committeeOutput(c domain.Committee) CommitteeOutput {
	out := CommitteeOutput{
		Code:    c.Code,
		Name:    c.Name,
		Chamber: c.Chamber,
		Type:    c.Type,
		Parent:  c.ParentCode,
		Current: c.Current,
	}
	for _, sub := range c.Subcommittees {
		out.Subcommittees = append(out.Subcommittees, sub.Code+" "+sub.Name)
	}
	return out
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
