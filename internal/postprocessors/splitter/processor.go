// Package splitter provides a recursive character text splitter.
//
// Each page is split on the coarsest separator present (paragraph, line,
// word, character) and the pieces are greedily merged back into chunks of
// at most ChunkSize characters, carrying up to Overlap characters of
// trailing context into the next chunk. Lengths are counted in runes.
package splitter

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order, coarsest first. The empty
// separator splits into single characters and always matches.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Processor splits every page of a document into chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator list. The list should end with ""
// so that any text can be split down to the chunk size.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = seps
		}
	}
}

// New creates a new splitter processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "splitter"
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Process splits each page of the document into chunks, in page order.
// Input chunks are ignored; chunks are returned without IDs.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, text := range p.SplitText(page.Content) {
			chunks = append(chunks, domain.Chunk{
				Content: text,
				Metadata: domain.ChunkMetadata{
					Source: doc.Source,
					Page:   page.Number,
				},
			})
		}
	}

	return chunks, nil
}

// SplitText splits a single text into trimmed, non-empty chunks.
func (p *Processor) SplitText(text string) []string {
	return p.split(text, p.separators)
}

func (p *Processor) split(text string, separators []string) []string {
	var final []string

	separator := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			rest = separators[i+1:]
			break
		}
	}

	// Separators stay attached to the piece that follows them, so
	// pieces are merged back without inserting anything in between.
	var good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.merge(good, "")...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, p.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, p.merge(good, "")...)
	}

	return final
}

// merge greedily packs pieces into chunks no longer than chunkSize, then
// drops pieces from the front until at most overlap characters remain
// to start the next chunk.
func (p *Processor) merge(pieces []string, separator string) []string {
	sepLen := runeLen(separator)

	var (
		docs    []string
		current []string
		total   int
	)

	joinedLen := func(n int) int {
		if len(current) > 0 {
			return total + n + sepLen
		}
		return total + n
	}

	for _, piece := range pieces {
		n := runeLen(piece)

		if joinedLen(n) > p.chunkSize {
			if len(current) > 0 {
				if doc, ok := join(current, separator); ok {
					docs = append(docs, doc)
				}
				for total > p.overlap || (joinedLen(n) > p.chunkSize && total > 0) {
					dropped := runeLen(current[0])
					if len(current) > 1 {
						dropped += sepLen
					}
					total -= dropped
					current = current[1:]
				}
			}
		}

		current = append(current, piece)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}

	if doc, ok := join(current, separator); ok {
		docs = append(docs, doc)
	}

	return docs
}

// splitKeepingSeparator splits text on sep and prefixes every piece but
// the first with the separator. Empty pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string

	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, sep+part)
	}

	return pieces
}

func join(pieces []string, separator string) (string, bool) {
	text := strings.TrimSpace(strings.Join(pieces, separator))
	return text, text != ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
