package mcp

import (
	"github.com/custodia-labs/legis/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Records answers every record query.
	Records driving.RecordService

	// Health reports upstream health. Optional.
	Health driving.HealthService

	// Analysis prepares bill text for analysis. Optional.
	Analysis driving.AnalysisService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
