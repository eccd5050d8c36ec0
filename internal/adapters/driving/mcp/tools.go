package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed PDFs"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Response string   `json:"response"`
	Sources  []string `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the text to find similar chunks for"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents one retrieved chunk.
type ChunkOutput struct {
	ChunkID string  `json:"chunk_id"`
	Source  string  `json:"source"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Paths []string `json:"paths" jsonschema:"local file paths of PDF or text documents to index"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Documents int                      `json:"documents"`
	Extracted int                      `json:"extracted"`
	Chunks    int                      `json:"chunks"`
	Added     int                      `json:"added"`
	Failures  []domain.DocumentFailure `json:"failures"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using only the indexed PDF content, with the chunk IDs used as sources",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the indexed chunks most similar to a query, most relevant first",
	}, s.handleRetrieve)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Extract, split and index local PDF or text files; already indexed chunks are skipped",
		}, s.handleIngest)
	}
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	answer, err := s.ports.Query.Answer(ctx, input.Question)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, QueryOutput{Response: answer.Text, Sources: sources}, nil
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	k := input.K
	if k <= 0 {
		k = domain.DefaultTopK
	}

	results, err := s.ports.Query.Retrieve(ctx, input.Query, k)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]ChunkOutput, len(results)),
		Count:  len(results),
	}
	for i, r := range results {
		output.Chunks[i] = ChunkOutput{
			ChunkID: r.ChunkID,
			Source:  r.Metadata.Source,
			Page:    r.Metadata.Page,
			Score:   r.Score,
			Content: r.Content,
		}
	}

	return nil, output, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	report, err := s.ports.Ingest.IngestPaths(ctx, input.Paths)
	if err != nil {
		if report != nil && report.Added > 0 {
			return nil, IngestOutput{}, fmt.Errorf("%w (%d chunks were added before the failure)", err, report.Added)
		}
		return nil, IngestOutput{}, err
	}

	failures := report.Failures
	if failures == nil {
		failures = []domain.DocumentFailure{}
	}
	return nil, IngestOutput{
		Documents: report.Documents,
		Extracted: report.Extracted,
		Chunks:    report.Chunks,
		Added:     report.Added,
		Failures:  failures,
	}, nil
}
