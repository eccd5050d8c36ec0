package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNonContiguousPage indicates chunks of one page were interleaved
	// with chunks of another page, which would break positional IDs.
	ErrNonContiguousPage = errors.New("chunks of a page are not contiguous")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Both indexing and retrieval need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Error categories. Typed errors below match these through errors.Is.

	// ErrExtraction is the category of ExtractionError.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding is the category of EmbeddingError.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexIO is the category of IndexIOError.
	ErrIndexIO = errors.New("index I/O failed")

	// ErrGeneration is the category of GenerationError.
	ErrGeneration = errors.New("generation failed")
)

// ExtractionError reports a source document that could not be read.
// It is reported per document and never aborts the rest of a batch.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Is matches the ErrExtraction category.
func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// EmbeddingError reports an embedding backend failure.
// ChunkID is empty when the failing text was a query.
type EmbeddingError struct {
	ChunkID string
	Err     error
}

func (e *EmbeddingError) Error() string {
	if e.ChunkID == "" {
		return fmt.Sprintf("embed query: %v", e.Err)
	}
	return fmt.Sprintf("embed chunk %s: %v", e.ChunkID, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Is matches the ErrEmbedding category.
func (e *EmbeddingError) Is(target error) bool { return target == ErrEmbedding }

// IndexIOError reports that the persistent index is unreachable or corrupt.
type IndexIOError struct {
	Op  string
	Err error
}

func (e *IndexIOError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *IndexIOError) Unwrap() error { return e.Err }

// Is matches the ErrIndexIO category.
func (e *IndexIOError) Is(target error) bool { return target == ErrIndexIO }

// GenerationError reports that the generative backend failed or timed out.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate answer: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches the ErrGeneration category.
func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// ValidationError rejects a request before any backend call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
