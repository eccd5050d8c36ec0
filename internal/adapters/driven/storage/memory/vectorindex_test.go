package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

func entry(id string, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{
		ID:        id,
		Content:   "content of " + id,
		Embedding: vec,
		Metadata:  domain.ChunkMetadata{Source: "doc.pdf", Page: 0},
	}
}

func TestVectorIndex_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()

	require.NoError(t, idx.Upsert(ctx, entry("doc.pdf:0:0", 1, 0)))
	require.NoError(t, idx.Upsert(ctx, entry("doc.pdf:0:1", 0, 1)))

	ids, err := idx.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "doc.pdf:0:0")

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "memory", idx.Backend())
}

func TestVectorIndex_UpsertKeepsExisting(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()

	first := entry("a", 1, 0)
	second := entry("a", 0, 1)
	second.Content = "replacement"

	require.NoError(t, idx.Upsert(ctx, first))
	require.NoError(t, idx.Upsert(ctx, second))

	hits, err := idx.SimilaritySearch(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "content of a", hits[0].Entry.Content)
}

func TestVectorIndex_SimilaritySearch(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()

	_ = idx.Upsert(ctx, entry("x", 1, 0))
	_ = idx.Upsert(ctx, entry("y", 0, 1))
	_ = idx.Upsert(ctx, entry("xy", 1, 1))

	hits, err := idx.SimilaritySearch(ctx, []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "x", hits[0].Entry.ID)
	assert.Equal(t, "xy", hits[1].Entry.ID)
	assert.Equal(t, domain.ChunkMetadata{Source: "doc.pdf", Page: 0}, hits[0].Entry.Metadata)
}

func TestVectorIndex_SearchEmpty(t *testing.T) {
	hits, err := NewVectorIndex().SimilaritySearch(context.Background(), []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_DestroyAll(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()
	_ = idx.Upsert(ctx, entry("a", 1))

	require.NoError(t, idx.DestroyAll(ctx))
	require.NoError(t, idx.DestroyAll(ctx), "destroying an empty index succeeds")

	count, _ := idx.Count(ctx)
	assert.Zero(t, count)

	require.NoError(t, idx.Upsert(ctx, entry("a", 1)))
	count, _ = idx.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_UpsertCopiesEmbedding(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex()

	vec := []float32{1, 0}
	_ = idx.Upsert(ctx, domain.IndexEntry{ID: "a", Embedding: vec})
	vec[0] = -1

	hits, _ := idx.SimilaritySearch(ctx, []float32{1, 0}, 1)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}
