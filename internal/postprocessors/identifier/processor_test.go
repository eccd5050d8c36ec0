package identifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

func chunk(source string, page int, content string) domain.Chunk {
	return domain.Chunk{
		Content:  content,
		Metadata: domain.ChunkMetadata{Source: source, Page: page},
	}
}

func ids(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ID
	}
	return out
}

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "identifier", New().Name())
}

func TestAssign_IndexesRestartPerPage(t *testing.T) {
	in := []domain.Chunk{
		chunk("doc.pdf", 0, "a"),
		chunk("doc.pdf", 0, "b"),
		chunk("doc.pdf", 0, "c"),
		chunk("doc.pdf", 1, "d"),
	}

	out, err := Assign(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"doc.pdf:0:0", "doc.pdf:0:1", "doc.pdf:0:2", "doc.pdf:1:0"}, ids(out))
	assert.Equal(t, "d", out[3].Content)
}

func TestAssign_DoesNotModifyInput(t *testing.T) {
	in := []domain.Chunk{chunk("doc.pdf", 0, "a")}

	_, err := Assign(in)
	require.NoError(t, err)
	assert.Empty(t, in[0].ID)
}

func TestAssign_Deterministic(t *testing.T) {
	in := []domain.Chunk{
		chunk("a.pdf", 0, "x"),
		chunk("a.pdf", 2, "y"),
		chunk("b.pdf", 0, "z"),
	}

	first, err := Assign(in)
	require.NoError(t, err)
	second, err := Assign(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a.pdf:0:0", "a.pdf:2:0", "b.pdf:0:0"}, ids(first))
}

func TestAssign_SourcesWithSamePageNumber(t *testing.T) {
	out, err := Assign([]domain.Chunk{
		chunk("a.pdf", 0, "x"),
		chunk("b.pdf", 0, "y"),
		chunk("b.pdf", 0, "z"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf:0:0", "b.pdf:0:0", "b.pdf:0:1"}, ids(out))
}

func TestAssign_NonContiguousPage(t *testing.T) {
	_, err := Assign([]domain.Chunk{
		chunk("doc.pdf", 0, "a"),
		chunk("doc.pdf", 1, "b"),
		chunk("doc.pdf", 0, "c"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNonContiguousPage)
	assert.Contains(t, err.Error(), "doc.pdf:0")
}

func TestAssign_Empty(t *testing.T) {
	out, err := Assign(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProcessor_Process(t *testing.T) {
	out, err := New().Process(context.Background(), &domain.Document{Source: "doc.pdf"}, []domain.Chunk{
		chunk("doc.pdf", 3, "a"),
		chunk("doc.pdf", 3, "b"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.pdf:3:0", "doc.pdf:3:1"}, ids(out))
}
