package mcp

import (
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Query answers questions and retrieves chunks.
	Query driving.QueryService

	// Index reports index statistics.
	Index driving.IndexService

	// Ingest adds local files to the index. Optional: without it the
	// ingest tool is not offered.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
