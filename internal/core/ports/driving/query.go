package driving

import (
	"context"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// QueryService answers questions from the indexed chunks.
type QueryService interface {
	// Retrieve returns at most k chunks, most relevant first.
	// An empty index yields an empty slice, not an error.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)

	// Answer retrieves context for the query and generates an answer.
	Answer(ctx context.Context, query string) (*domain.Answer, error)
}
