package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrNonContiguousPage", ErrNonContiguousPage},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
		{"ErrExtraction", ErrExtraction},
		{"ErrEmbedding", ErrEmbedding},
		{"ErrIndexIO", ErrIndexIO},
		{"ErrGeneration", ErrGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("bad xref table")
	err := fmt.Errorf("ingest: %w", &ExtractionError{Source: "doc.pdf", Err: cause})

	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmbedding)
	assert.Contains(t, err.Error(), "extract doc.pdf: bad xref table")

	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, "doc.pdf", extractErr.Source)
}

func TestEmbeddingError(t *testing.T) {
	t.Run("chunk", func(t *testing.T) {
		err := &EmbeddingError{ChunkID: "doc.pdf:0:1", Err: errors.New("connection refused")}
		assert.ErrorIs(t, err, ErrEmbedding)
		assert.Equal(t, "embed chunk doc.pdf:0:1: connection refused", err.Error())
	})

	t.Run("query", func(t *testing.T) {
		err := &EmbeddingError{Err: context.DeadlineExceeded}
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "embed query: context deadline exceeded", err.Error())
	})
}

func TestIndexIOError(t *testing.T) {
	err := &IndexIOError{Op: "list ids", Err: errors.New("disk I/O error")}
	assert.ErrorIs(t, err, ErrIndexIO)
	assert.Equal(t, "index list ids: disk I/O error", err.Error())
}

func TestGenerationError(t *testing.T) {
	err := &GenerationError{Err: errors.New("model not loaded")}
	assert.ErrorIs(t, err, ErrGeneration)
	assert.NotErrorIs(t, err, ErrIndexIO)
	assert.Equal(t, "generate answer: model not loaded", err.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("query_text", "must not be empty")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid query_text: must not be empty", err.Error())
}
