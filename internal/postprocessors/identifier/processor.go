// Package identifier assigns deterministic "source:page:index" IDs to chunks.
package identifier

import (
	"context"
	"fmt"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// Processor assigns chunk IDs. It implements the PostProcessor interface.
type Processor struct{}

// New creates a new identifier processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "identifier"
}

// Process assigns IDs to the chunks produced by the previous stage.
func (p *Processor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return Assign(chunks)
}

// Assign sets each chunk's ID to source:page:index, where index counts
// from 0 within its page in sequence order. The input is not modified.
//
// Chunks of one page must be adjacent; a page that reappears after a
// different page returns ErrNonContiguousPage, since its indexes would
// otherwise restart and collide.
func Assign(chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	out := make([]domain.Chunk, len(chunks))
	seen := make(map[string]struct{})

	lastKey := ""
	index := 0
	for i, c := range chunks {
		key := domain.PageKey(c.Metadata.Source, c.Metadata.Page)
		if i > 0 && key == lastKey {
			index++
		} else {
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %s", domain.ErrNonContiguousPage, key)
			}
			seen[key] = struct{}{}
			index = 0
		}
		lastKey = key

		c.ID = domain.NewChunkID(c.Metadata.Source, c.Metadata.Page, index)
		out[i] = c
	}

	return out, nil
}
