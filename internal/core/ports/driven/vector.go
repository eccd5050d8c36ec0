package driven

import (
	"context"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// VectorIndex is the persistent index of chunk entries.
// Implementations must be safe for concurrent use; the index synchroniser
// serialises writers on top of this.
type VectorIndex interface {
	// ListIDs returns the IDs of every stored entry without fetching content.
	ListIDs(ctx context.Context) (map[string]struct{}, error)

	// Upsert stores one entry atomically. Inserting an ID that already
	// exists leaves the stored entry unchanged.
	Upsert(ctx context.Context, entry domain.IndexEntry) error

	// SimilaritySearch returns up to k entries closest to the query vector,
	// most similar first, ties in insertion order.
	SimilaritySearch(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Persist flushes pending writes to durable storage.
	Persist(ctx context.Context) error

	// DestroyAll irreversibly removes every entry and the index's own
	// storage. Calling it on an index that does not exist is a no-op.
	DestroyAll(ctx context.Context) error

	// Backend names the implementation, e.g. "sqlite".
	Backend() string

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Entry is the matched entry. Embedding may be left empty.
	Entry domain.IndexEntry

	// Similarity is the cosine similarity score; higher is closer.
	Similarity float64
}
