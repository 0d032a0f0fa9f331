// Package mcp provides an MCP (Model Context Protocol) server adapter for legis.
// It lets AI assistants query legislative records and fetch canonical bill
// text for analysis.
package mcp

import "errors"

var (
	// ErrMissingRecordService is returned when the record service is not provided.
	ErrMissingRecordService = errors.New("mcp: record service is required")

	// ErrHealthUnavailable is returned by upstream_status without a health service.
	ErrHealthUnavailable = errors.New("mcp: health service not configured")

	// ErrAnalysisUnavailable is returned by prepare_bill_analysis without an analysis service.
	ErrAnalysisUnavailable = errors.New("mcp: analysis service not configured")
)
