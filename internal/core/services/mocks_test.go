package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage/memory"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// --- Mock implementations ---

var errMock = errors.New("mock failure")

// mockEmbedder implements driven.EmbeddingService with a deterministic
// bag-of-letters embedding.
type mockEmbedder struct {
	mu       sync.Mutex
	calls    int
	failOn   string // text containing this fails
	embedErr error

	delay       time.Duration   // sleep per call
	entered     chan struct{}   // receives once per call, if set
	gate        <-chan struct{} // calls block until closed, if set
	inFlight    int
	maxInFlight int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errMock
	}
	return letterVector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 27 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbedder) peakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// letterVector counts a-z occurrences; the last component keeps the
// vector non-zero.
func letterVector(text string) []float32 {
	v := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	v[26] = 1
	return v
}

// mockIndex wraps the in-memory index with injectable failures.
type mockIndex struct {
	*memory.VectorIndex

	mu          sync.Mutex
	upsertsByID map[string]int

	listErr    error
	upsertErr  error
	failAfter  int // upserts allowed before upsertErr applies; 0 means always
	upserts    int
	searchErr  error
	hits       []driven.VectorHit // overrides search results when set
	persistErr error
	persisted  int
	destroyErr error
	countErr   error
}

func newMockIndex() *mockIndex {
	return &mockIndex{
		VectorIndex: memory.NewVectorIndex(),
		upsertsByID: make(map[string]int),
	}
}

func (m *mockIndex) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.VectorIndex.ListIDs(ctx)
}

func (m *mockIndex) Upsert(ctx context.Context, entry domain.IndexEntry) error {
	m.mu.Lock()
	if m.upsertErr != nil && m.upserts >= m.failAfter {
		m.mu.Unlock()
		return m.upsertErr
	}
	m.upserts++
	m.upsertsByID[entry.ID]++
	m.mu.Unlock()
	return m.VectorIndex.Upsert(ctx, entry)
}

func (m *mockIndex) upsertCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.upsertsByID))
	for id, n := range m.upsertsByID {
		out[id] = n
	}
	return out
}

func (m *mockIndex) SimilaritySearch(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.hits != nil {
		return m.hits, nil
	}
	return m.VectorIndex.SimilaritySearch(ctx, query, k)
}

func (m *mockIndex) Persist(ctx context.Context) error {
	m.mu.Lock()
	m.persisted++
	m.mu.Unlock()
	if m.persistErr != nil {
		return m.persistErr
	}
	return m.VectorIndex.Persist(ctx)
}

func (m *mockIndex) DestroyAll(ctx context.Context) error {
	if m.destroyErr != nil {
		return m.destroyErr
	}
	return m.VectorIndex.DestroyAll(ctx)
}

func (m *mockIndex) Count(ctx context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.VectorIndex.Count(ctx)
}

// mockLLM implements driven.LLMService and records the last prompt.
type mockLLM struct {
	response string
	err      error
	wait     bool // block until the context is done

	prompt string
	opts   driven.GenerateOptions
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt = prompt
	m.opts = opts
	if m.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockExtractors implements driven.ExtractorRegistry from a name->pages map.
type mockExtractors struct {
	pages map[string][]domain.Page
}

func (m *mockExtractors) Extract(_ context.Context, file domain.SourceFile) ([]domain.Page, error) {
	pages, ok := m.pages[file.Path]
	if !ok {
		return nil, &domain.ExtractionError{Source: file.Name, Err: domain.ErrUnsupportedType}
	}
	return pages, nil
}

func (m *mockExtractors) Register(_ driven.Extractor) {}

func chunk(id, content string) domain.Chunk {
	return domain.Chunk{ID: id, Content: content, Metadata: domain.ChunkMetadata{Source: "doc.pdf"}}
}
