package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/ai"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/config/file"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/cli"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/services"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/extractors"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/extractors/docx"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/extractors/html"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/extractors/pdf"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/extractors/plaintext"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/postprocessors"
)

// bootstrapper wires the adapters and services for the CLI.
type bootstrapper struct {
	settings *services.SettingsService
	store    *file.ConfigStore
}

var _ cli.Bootstrapper = (*bootstrapper)(nil)

func (b *bootstrapper) Settings(opts cli.Options) (driving.SettingsService, error) {
	if b.settings != nil {
		return b.settings, nil
	}

	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	b.store = store
	b.settings = services.NewSettingsService(store, ai.NewConfigValidator())
	return b.settings, nil
}

func (b *bootstrapper) Services(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	if _, err := b.Settings(opts); err != nil {
		return nil, err
	}

	settings, err := b.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	logger.Debug("Embedding: %s (%s), index: %s", settings.Embedding.Provider, settings.Embedding.Model, settings.Index.Backend)

	stack, err := ai.BuildStack(ctx, settings)
	if err != nil {
		return nil, err
	}
	for _, w := range stack.Warnings {
		logger.Warn("%s", w)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(b.settings.PipelineConfig())
	if err != nil {
		_ = stack.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	extractorRegistry := extractors.NewRegistry(pdf.New(), docx.New(), html.New(), plaintext.New())

	index := services.NewIndexSynchronizer(stack.VectorIndex, stack.EmbeddingService)
	ingest := services.NewIngestService(extractorRegistry, pipeline, index)
	query := services.NewQueryService(stack.VectorIndex, stack.EmbeddingService, stack.LLMService, settings.Query)

	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(b.store.Path()), "prompts"))
	if err != nil {
		logger.Warn("prompt store unavailable, using the built-in prompt: %v", err)
	} else {
		query.SetPromptStore(prompts)
	}

	return &cli.Services{
		Ingest:   ingest,
		Index:    index,
		Query:    query,
		Settings: b.settings,
		Close:    stack.Close,
	}, nil
}
