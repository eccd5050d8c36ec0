package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSupports(t *testing.T) {
	e := New()
	assert.Equal(t, "plaintext", e.Name())

	assert.True(t, e.Supports("notes.txt", ""))
	assert.True(t, e.Supports("README.MD", ""))
	assert.True(t, e.Supports("upload", "text/plain"))
	assert.False(t, e.Supports("doc.pdf", "application/pdf"))
}

func TestExtract_SinglePage(t *testing.T) {
	path := writeFile(t, "notes.txt", "hello world")

	pages, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Page{{Number: 0, Content: "hello world"}}, pages)
}

func TestExtract_FormFeedPages(t *testing.T) {
	path := writeFile(t, "notes.md", "# One\f# Two")

	pages, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "# Two", pages[1].Content)
	assert.Equal(t, 1, pages[1].Number)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
