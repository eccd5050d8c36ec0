package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// Ensure IndexSynchronizer implements the interface.
var _ driving.IndexService = (*IndexSynchronizer)(nil)

// IndexSynchronizer adds chunks to the vector index exactly once per ID.
// Sync and Reset are serialised so that a reset never interleaves with
// a batch.
type IndexSynchronizer struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService

	mu sync.Mutex
}

// NewIndexSynchronizer creates an index synchroniser.
func NewIndexSynchronizer(index driven.VectorIndex, embedder driven.EmbeddingService) *IndexSynchronizer {
	return &IndexSynchronizer{
		index:    index,
		embedder: embedder,
	}
}

// Sync embeds and upserts the chunks whose IDs are not already indexed,
// in input order, and returns how many were added.
//
// The first embedding or index failure stops the batch. Entries upserted
// before the failure stay in the index and are persisted, so a retry only
// adds what is still missing.
func (s *IndexSynchronizer) Sync(ctx context.Context, chunks []domain.Chunk) (int, error) {
	// 1. Every chunk must carry its identity, unique within the batch
	ids := make(map[string]int, len(chunks))
	for i, c := range chunks {
		if c.ID == "" {
			return 0, domain.NewValidationError("chunks", fmt.Sprintf("chunk %d has no id", i))
		}
		if j, dup := ids[c.ID]; dup {
			return 0, domain.NewValidationError("chunks",
				fmt.Sprintf("chunks %d and %d share the id %q", j, i, c.ID))
		}
		ids[c.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Index Sync")

	// 2. Fetch existing IDs
	existing, err := s.index.ListIDs(ctx)
	if err != nil {
		return 0, &domain.IndexIOError{Op: "list ids", Err: err}
	}
	logger.Debug("Number of existing documents in DB: %d", len(existing))

	// 3. Partition
	var fresh []domain.Chunk
	for _, c := range chunks {
		if _, ok := existing[c.ID]; !ok {
			fresh = append(fresh, c)
		}
	}

	if len(fresh) == 0 {
		logger.Info("No new documents to add")
		return 0, nil
	}
	logger.Info("Adding new documents: %d", len(fresh))

	// 4. Embed and upsert one at a time
	added, syncErr := s.addAll(ctx, fresh)

	// 5. Persist whatever was written, even after a failure
	if err := s.index.Persist(ctx); err != nil {
		persistErr := &domain.IndexIOError{Op: "persist", Err: err}
		if syncErr != nil {
			return added, errors.Join(syncErr, persistErr)
		}
		return added, persistErr
	}

	if syncErr != nil {
		logger.Warn("Sync stopped after %d of %d chunks: %v", added, len(fresh), syncErr)
		return added, syncErr
	}

	logger.Debug("Sync complete: %d added", added)
	return added, nil
}

func (s *IndexSynchronizer) addAll(ctx context.Context, chunks []domain.Chunk) (int, error) {
	added := 0
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		vec, err := s.embedder.Embed(ctx, c.Content)
		if err != nil {
			return added, &domain.EmbeddingError{ChunkID: c.ID, Err: err}
		}

		entry := domain.IndexEntry{
			ID:        c.ID,
			Content:   c.Content,
			Embedding: vec,
			Metadata:  c.Metadata,
		}
		if err := s.index.Upsert(ctx, entry); err != nil {
			return added, &domain.IndexIOError{Op: "upsert", Err: err}
		}
		added++
	}
	return added, nil
}

// Reset destroys the whole index. It succeeds when no index exists.
func (s *IndexSynchronizer) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.DestroyAll(ctx); err != nil {
		return &domain.IndexIOError{Op: "reset", Err: err}
	}
	logger.Info("Index reset (%s)", s.index.Backend())
	return nil
}

// Stats reports the current index size.
func (s *IndexSynchronizer) Stats(ctx context.Context) (*domain.IndexStats, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, &domain.IndexIOError{Op: "count", Err: err}
	}
	return &domain.IndexStats{Entries: count, Backend: s.index.Backend()}, nil
}
