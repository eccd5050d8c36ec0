package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects an extractor for each file by name and MIME type.
// Extractors are tried in registration order.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, e)
}

// Extract reads the file's pages with the first extractor that supports it.
// When the file carries no MIME type it is sniffed from the content.
// Every failure is returned as an ExtractionError naming the source.
func (r *Registry) Extract(ctx context.Context, file domain.SourceFile) ([]domain.Page, error) {
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		detected, err := mimetype.DetectFile(file.Path)
		if err != nil {
			return nil, &domain.ExtractionError{Source: name, Err: err}
		}
		mimeType = detected.String()
	}
	mimeType = baseMIMEType(mimeType)

	e := r.find(name, mimeType)
	if e == nil {
		return nil, &domain.ExtractionError{
			Source: name,
			Err:    fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mimeType),
		}
	}

	pages, err := e.Extract(ctx, file.Path)
	if err != nil {
		return nil, &domain.ExtractionError{Source: name, Err: err}
	}
	return pages, nil
}

// Names lists the registered extractors.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.extractors))
	for i, e := range r.extractors {
		names[i] = e.Name()
	}
	return names
}

func (r *Registry) find(name, mimeType string) driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.extractors {
		if e.Supports(name, mimeType) {
			return e
		}
	}
	return nil
}

// baseMIMEType drops parameters such as "; charset=utf-8".
func baseMIMEType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
