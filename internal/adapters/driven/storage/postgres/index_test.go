package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// setupPostgres starts a pgvector container, skipping when Docker is
// unavailable or -short is set.
func setupPostgres(t *testing.T) *VectorIndex {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "pgvector/pgvector:pg17",
		tcpostgres.WithDatabase("pdfrag"),
		tcpostgres.WithUsername("pdfrag"),
		tcpostgres.WithPassword("pdfrag"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	idx, err := NewVectorIndex(ctx, dsn, "test_chunks", 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func entry(id string, page int, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{
		ID:        id,
		Content:   "content of " + id,
		Embedding: vec,
		Metadata:  domain.ChunkMetadata{Source: "doc.pdf", Page: page},
	}
}

func TestNewVectorIndex_RejectsBadTableName(t *testing.T) {
	_, err := NewVectorIndex(context.Background(), "postgres://unused", "chunks; DROP TABLE x", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_Lifecycle(t *testing.T) {
	idx := setupPostgres(t)
	ctx := context.Background()

	assert.Equal(t, "postgres", idx.Backend())
	assert.Equal(t, "test_chunks", idx.Table())

	require.NoError(t, idx.Upsert(ctx, entry("doc.pdf:0:0", 0, 0, 1)))
	require.NoError(t, idx.Upsert(ctx, entry("doc.pdf:1:0", 1, 1, 0)))
	require.NoError(t, idx.Upsert(ctx, entry("doc.pdf:1:0", 1, 0, 1)), "duplicates are ignored")
	require.NoError(t, idx.Persist(ctx))

	ids, err := idx.ListIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	hits, err := idx.SimilaritySearch(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc.pdf:1:0", hits[0].Entry.ID)
	assert.Equal(t, domain.ChunkMetadata{Source: "doc.pdf", Page: 1}, hits[0].Entry.Metadata)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.InDelta(t, 0.0, hits[1].Similarity, 1e-6)

	require.NoError(t, idx.DestroyAll(ctx))
	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
