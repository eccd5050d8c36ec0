// Package ai provides factory functions for creating the embedding, LLM
// and vector index adapters from settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	localembed "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/llm/ollama"
	openaillm "github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/llm/openai"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage/memory"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage/postgres"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage/sqlite"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Stack holds the driven adapters the services run on.
type Stack struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // nil when generation is not configured
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues, e.g. a missing LLM key.
}

// Close releases all resources held by the stack.
func (s *Stack) Close() error {
	var errs []error
	if s.EmbeddingService != nil {
		errs = append(errs, s.EmbeddingService.Close())
	}
	if s.LLMService != nil {
		errs = append(errs, s.LLMService.Close())
	}
	if s.VectorIndex != nil {
		errs = append(errs, s.VectorIndex.Close())
	}
	return errors.Join(errs...)
}

// BuildStack creates the embedding service, vector index and, when
// configured, the LLM service. Nothing is pinged; an unconfigured LLM is
// a warning since ingestion and retrieval work without it.
func BuildStack(ctx context.Context, settings *domain.AppSettings) (*Stack, error) {
	stack := &Stack{}

	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	stack.EmbeddingService = embedder

	index, err := CreateVectorIndex(ctx, &settings.Index, embedder.Dimensions())
	if err != nil {
		_ = stack.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	stack.VectorIndex = index

	llm, err := CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		stack.Warnings = append(stack.Warnings, fmt.Sprintf("LLM disabled: %v", err))
	case llm == nil:
		stack.Warnings = append(stack.Warnings,
			fmt.Sprintf("LLM disabled: provider %q is not configured", settings.LLM.Provider))
	default:
		stack.LLMService = llm
	}

	return stack, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	if err := ping(svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig creates the configured embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig creates the configured LLM service and pings it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

func ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return fn(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama, openai or local")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(localembed.Config{
			Model:    settings.Model,
			ModelDir: settings.ModelDir,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorIndex opens the configured index backend. dimensions sizes
// the postgres vector column; 0 leaves it unsized.
func CreateVectorIndex(ctx context.Context, settings *domain.IndexSettings, dimensions int) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.IndexBackendSQLite, "":
		return sqlite.NewVectorIndex(settings.DataDir)

	case domain.IndexBackendPostgres:
		if settings.DSN == "" {
			return nil, fmt.Errorf("postgres index requires a DSN")
		}
		return postgres.NewVectorIndex(ctx, settings.DSN, settings.Table, dimensions)

	case domain.IndexBackendMemory:
		return memory.NewVectorIndex(), nil

	default:
		return nil, fmt.Errorf("unsupported index backend: %s", settings.Backend)
	}
}
