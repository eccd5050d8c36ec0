package memory

import (
	"context"
	"sync"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Its contents last for the life of the process.
type VectorIndex struct {
	mu      sync.RWMutex
	entries map[string]domain.IndexEntry
	order   []string
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		entries: make(map[string]domain.IndexEntry),
	}
}

// ListIDs returns the IDs of all stored entries.
func (v *VectorIndex) ListIDs(_ context.Context) (map[string]struct{}, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ids := make(map[string]struct{}, len(v.entries))
	for id := range v.entries {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Upsert stores an entry. An existing ID keeps its original entry.
func (v *VectorIndex) Upsert(_ context.Context, entry domain.IndexEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, exists := v.entries[entry.ID]; exists {
		return nil
	}
	entry.Embedding = append([]float32(nil), entry.Embedding...)
	v.entries[entry.ID] = entry
	v.order = append(v.order, entry.ID)
	return nil
}

// SimilaritySearch returns the k entries closest to the query vector.
func (v *VectorIndex) SimilaritySearch(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	entries := make([]domain.IndexEntry, 0, len(v.order))
	for _, id := range v.order {
		entries = append(entries, v.entries[id])
	}
	return storage.RankByCosine(query, entries, k), nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Persist is a no-op for the memory index.
func (v *VectorIndex) Persist(_ context.Context) error {
	return nil
}

// DestroyAll removes every entry.
func (v *VectorIndex) DestroyAll(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.entries = make(map[string]domain.IndexEntry)
	v.order = nil
	return nil
}

// Backend returns "memory".
func (v *VectorIndex) Backend() string {
	return domain.IndexBackendMemory.String()
}

// Close is a no-op for the memory index.
func (v *VectorIndex) Close() error {
	return nil
}
