package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// Ensure QueryService implements the interfaces.
var (
	_ driving.QueryService    = (*QueryService)(nil)
	_ driven.PromptStoreAware = (*QueryService)(nil)
)

// ContextSeparator joins retrieved chunk texts in the prompt.
const ContextSeparator = "\n\n---\n\n"

// QueryService retrieves relevant chunks and composes answers from them.
type QueryService struct {
	index       driven.VectorIndex
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	promptStore driven.PromptStore
	settings    domain.QuerySettings
}

// NewQueryService creates a new query service. Zero settings fall back to
// the defaults. llm may be nil, in which case only Retrieve works.
func NewQueryService(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	settings domain.QuerySettings,
) *QueryService {
	if settings.TopK <= 0 {
		settings.TopK = domain.DefaultTopK
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = domain.DefaultMaxTokens
	}
	if settings.Timeout <= 0 {
		settings.Timeout = domain.DefaultQueryTimeout
	}
	return &QueryService{
		index:    index,
		embedder: embedder,
		llm:      llm,
		settings: settings,
	}
}

// SetPromptStore sets the store the answer template is loaded from.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Retrieve returns at most k chunks ordered by descending similarity.
func (s *QueryService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("query", "must not be empty")
	}
	if k <= 0 {
		return nil, domain.NewValidationError("k", "must be positive")
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.EmbeddingError{Err: err}
	}

	hits, err := s.index.SimilaritySearch(ctx, vec, k)
	if err != nil {
		return nil, &domain.IndexIOError{Op: "search", Err: err}
	}

	// Backends already rank, but the order is part of this contract.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, h := range hits {
		results[i] = domain.RetrievalResult{
			ChunkID:  h.Entry.ID,
			Content:  h.Entry.Content,
			Score:    h.Similarity,
			Metadata: h.Entry.Metadata,
		}
	}

	logger.Debug("Retrieved %d chunks", len(results))
	return results, nil
}

// Answer retrieves the top chunks for the question and asks the LLM to
// answer from them. The whole call is bounded by the query timeout.
func (s *QueryService) Answer(ctx context.Context, query string) (*domain.Answer, error) {
	if s.llm == nil {
		return nil, &domain.GenerationError{Err: domain.ErrLLMUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, s.settings.Timeout)
	defer cancel()

	// 1. Retrieve context
	results, err := s.Retrieve(ctx, query, s.settings.TopK)
	if err != nil {
		return nil, err
	}

	// 2. Render prompt
	texts := make([]string, len(results))
	sources := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Content
		sources[i] = r.ChunkID
		if sources[i] == "" {
			sources[i] = domain.UnknownSource
		}
	}
	prompt := RenderPrompt(s.answerTemplate(), strings.Join(texts, ContextSeparator), query)
	logger.Debug("Prompt:\n%s", prompt)

	// 3. Generate
	if err := ctx.Err(); err != nil {
		return nil, &domain.GenerationError{Err: err}
	}
	start := time.Now()
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: s.settings.MaxTokens})
	if err != nil {
		return nil, &domain.GenerationError{Err: err}
	}
	logger.Debug("Generated in %s with %s", time.Since(start).Round(time.Millisecond), s.llm.ModelName())

	answer := &domain.Answer{Text: text, Sources: sources}
	logger.Info("Response: %s\nSources: %v", answer.Text, answer.Sources)
	return answer, nil
}

// RenderPrompt substitutes {context} and {question} in one pass, so text
// inside the context that looks like a placeholder is left alone.
func RenderPrompt(template, contextText, question string) string {
	return strings.NewReplacer("{context}", contextText, "{question}", question).Replace(template)
}

func (s *QueryService) answerTemplate() string {
	if s.promptStore == nil {
		return driven.DefaultAnswerPrompt
	}
	tmpl, err := s.promptStore.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		logger.Debug("Using built-in answer prompt: %v", err)
		return driven.DefaultAnswerPrompt
	}
	return tmpl
}
