package driven

import (
	"context"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// Extractor turns a file on disk into ordered pages of raw text.
// Each extractor handles specific file types (e.g., PDF, plain text).
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// Supports reports whether this extractor handles the file.
	// mimeType may be empty, in which case the name's extension decides.
	Supports(name, mimeType string) bool

	// Extract reads the file and returns its pages with zero-based numbers.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// ExtractorRegistry selects the appropriate extractor for a file.
type ExtractorRegistry interface {
	// Extract reads the file with the first extractor that supports it.
	// Unsupported files fail with domain.ErrUnsupportedType.
	Extract(ctx context.Context, file domain.SourceFile) ([]domain.Page, error)

	// Register adds an extractor. Earlier registrations win.
	Register(extractor Extractor)
}
