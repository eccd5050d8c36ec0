// Package plaintext extracts text and markdown files as pages.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var supportedExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "plaintext"
}

// Supports reports whether the file is plain text or markdown.
func (e *Extractor) Supports(name, mimeType string) bool {
	if supportedExtensions[strings.ToLower(filepath.Ext(name))] {
		return true
	}
	return mimeType == "text/plain" || mimeType == "text/markdown"
}

// Extract reads the file. Form feeds separate pages; a file without
// them is a single page 0.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	parts := strings.Split(string(data), "\f")
	pages := make([]domain.Page, len(parts))
	for i, content := range parts {
		pages[i] = domain.Page{Number: i, Content: content}
	}
	return pages, nil
}
