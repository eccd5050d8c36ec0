// Package local provides an in-process embedding service running a
// sentence-transformer ONNX model through hugot's pure Go backend.
//
// The model is downloaded from Hugging Face on first use and cached in the
// model directory, so no embedding server is needed.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel    = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultOnnxFile = "onnx/model.onnx"
)

// Config holds configuration for the local embedding service.
type Config struct {
	// Model is a Hugging Face repository (default: all-MiniLM-L6-v2).
	Model string

	// ModelDir caches downloaded models (default: ./models).
	ModelDir string
}

// embedFunc embeds a batch of texts.
type embedFunc func(texts []string) ([][]float32, error)

// EmbeddingService generates embeddings in process.
type EmbeddingService struct {
	mu         sync.Mutex
	embed      embedFunc
	destroy    func() error
	model      string
	dimensions int
}

// NewEmbeddingService downloads the model if needed and starts a hugot
// session for it.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = "models"
	}

	modelPath, err := prepareModel(cfg.Model, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "pdfrag-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("create embedding pipeline: %w", errors.Join(err, destroyErr))
		}
		return nil, fmt.Errorf("create embedding pipeline: %w", err)
	}

	embed := func(texts []string) ([][]float32, error) {
		result, err := pipeline.RunPipeline(texts)
		if err != nil {
			return nil, err
		}
		return result.Embeddings, nil
	}

	s, err := newEmbeddingService(cfg.Model, embed, session.Destroy)
	if err != nil {
		_ = session.Destroy()
		return nil, err
	}
	return s, nil
}

// newEmbeddingService wraps embed and probes it once for the vector size.
func newEmbeddingService(model string, embed embedFunc, destroy func() error) (*EmbeddingService, error) {
	s := &EmbeddingService{
		embed:   embed,
		destroy: destroy,
		model:   model,
	}

	probe, err := s.Embed(context.Background(), "dimension probe")
	if err != nil {
		return nil, fmt.Errorf("probe model %s: %w", model, err)
	}
	s.dimensions = len(probe)
	logger.Debug("Local embedding model %s ready (%d dimensions)", model, s.dimensions)
	return s, nil
}

// prepareModel returns the cached model path, downloading it first if
// needed.
func prepareModel(model, dir string) (string, error) {
	modelPath := filepath.Join(dir, strings.ReplaceAll(model, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat model: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	logger.Info("Downloading embedding model %s to %s", model, dir)
	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = DefaultOnnxFile
	path, err := hugot.DownloadModel(model, dir, opts)
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", model, err)
	}
	return path, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds the texts in one pipeline run. Runs are serialised.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embed == nil {
		return nil, fmt.Errorf("local: embedding service is closed")
	}
	embeddings, err := s.embed(texts)
	if err != nil {
		return nil, fmt.Errorf("local: run pipeline: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("local: got %d embeddings for %d texts", len(embeddings), len(texts))
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the Hugging Face model name.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping reports whether the pipeline is still open.
func (s *EmbeddingService) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.embed == nil {
		return fmt.Errorf("local: embedding service is closed")
	}
	return nil
}

// Close destroys the hugot session.
func (s *EmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.embed = nil
	if s.destroy == nil {
		return nil
	}
	destroy := s.destroy
	s.destroy = nil
	return destroy()
}
