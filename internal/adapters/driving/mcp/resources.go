package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/legis/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for legis resources.
	uriScheme = "legis://"
)

var (
	statusResource = &mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Upstream health mode and rate budgets",
		MIMEType:    "application/json",
	}
	billTextTemplate = &mcp.ResourceTemplate{
		URITemplate: uriScheme + "bills/{billId}/text",
		Name:        "bill-text",
		Description: "Canonical Markdown text of a bill",
		MIMEType:    "text/markdown",
	}
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(statusResource, s.handleStatusResource)
	s.server.AddResourceTemplate(billTextTemplate, s.handleBillTextResource)
}

// handleStatusResource returns the upstream health state.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Health == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	payload := struct {
		Health  domain.HealthStatus      `json:"health"`
		Budgets []domain.RateBudgetStats `json:"rate_budgets"`
	}{
		Health:  s.ports.Health.Status(),
		Budgets: s.ports.Health.RateBudgets(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleBillTextResource returns the canonical text of one bill.
func (s *Server) handleBillTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Analysis == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	billID := extractBillID(req.Params.URI)
	if billID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	prepared, err := s.ports.Analysis.Prepare(ctx, billID, string(domain.AnalysisSummary))
	if err != nil {
		return nil, fmt.Errorf("preparing bill text: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     prepared.Text,
		}},
	}, nil
}

// extractBillID extracts the bill ID from a URI like legis://bills/{billId}/text.
func extractBillID(uri string) string {
	const prefix = uriScheme + "bills/"
	const suffix = "/text"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
