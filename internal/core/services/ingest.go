package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultExtractWorkers bounds concurrent extractions per ingest call.
const DefaultExtractWorkers = 4

// IngestService extracts files, chunks them and syncs the chunks into the index.
type IngestService struct {
	extractors driven.ExtractorRegistry
	pipeline   driven.PostProcessorPipeline
	index      driving.IndexService
	workers    int
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	index driving.IndexService,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		pipeline:   pipeline,
		index:      index,
		workers:    DefaultExtractWorkers,
	}
}

// SetWorkers sets how many files are extracted concurrently.
func (s *IngestService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// extraction is the outcome for one input file.
type extraction struct {
	doc *domain.Document
	err error
}

// Ingest extracts every file, splits and identifies the pages, and syncs
// all chunks in one batch. A file that fails extraction is recorded in the
// report and skipped. If no file could be extracted, the joined extraction
// errors are returned.
//
// Source names must be distinct within one call: chunk IDs are derived
// from them, so two files sharing a name would claim the same IDs.
func (s *IngestService) Ingest(ctx context.Context, files []domain.SourceFile) (*domain.IngestReport, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "no files given")
	}
	names := make(map[string]int, len(files))
	for i, f := range files {
		if f.Name == "" || f.Path == "" {
			return nil, domain.NewValidationError("files", fmt.Sprintf("file %d has no name or path", i))
		}
		if j, dup := names[f.Name]; dup {
			return nil, domain.NewValidationError("files",
				fmt.Sprintf("files %d and %d share the source name %q", j, i, f.Name))
		}
		names[f.Name] = i
	}

	logger.Section("Ingest")
	report := &domain.IngestReport{Documents: len(files)}

	// 1. Extract concurrently, keeping results in input order
	results := make([]extraction, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		g.Go(func() error {
			pages, err := s.extractors.Extract(gctx, f)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].doc = &domain.Document{Source: f.Name, Pages: pages}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Split and identify each document
	var (
		chunks   []domain.Chunk
		failures []error
	)
	for i, r := range results {
		if r.err != nil {
			logger.Warn("Skipping %s: %v", files[i].Name, r.err)
			report.Failures = append(report.Failures, domain.DocumentFailure{
				Source: files[i].Name,
				Error:  r.err.Error(),
			})
			failures = append(failures, r.err)
			continue
		}
		report.Extracted++

		docChunks, err := s.pipeline.Process(ctx, r.doc)
		if err != nil {
			return report, fmt.Errorf("process %s: %w", r.doc.Source, err)
		}
		logger.Debug("%s: %d pages, %d chunks", r.doc.Source, len(r.doc.Pages), len(docChunks))
		chunks = append(chunks, docChunks...)
	}

	if report.Extracted == 0 {
		return report, errors.Join(failures...)
	}
	report.Chunks = len(chunks)
	logger.Info("Split %d documents into %d chunks", report.Extracted, report.Chunks)

	// 3. Sync
	added, err := s.index.Sync(ctx, chunks)
	report.Added = added
	if err != nil {
		return report, err
	}
	return report, nil
}

// IngestPaths ingests local files, using each cleaned path as the source
// name so that "./doc.pdf" and "doc.pdf" yield the same chunk IDs.
func (s *IngestService) IngestPaths(ctx context.Context, paths []string) (*domain.IngestReport, error) {
	files := make([]domain.SourceFile, len(paths))
	for i, p := range paths {
		name := p
		if p != "" {
			name = filepath.Clean(p)
		}
		files[i] = domain.SourceFile{Name: name, Path: p}
	}
	return s.Ingest(ctx, files)
}
