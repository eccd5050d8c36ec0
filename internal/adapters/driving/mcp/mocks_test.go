package mcp

import (
	"context"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

type mockQueryService struct {
	answer  *domain.Answer
	results []domain.RetrievalResult
	lastK   int
	err     error
}

func (m *mockQueryService) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievalResult, error) {
	m.lastK = k
	return m.results, m.err
}

func (m *mockQueryService) Answer(_ context.Context, _ string) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

type mockIndexService struct {
	stats *domain.IndexStats
	err   error
}

func (m *mockIndexService) Sync(context.Context, []domain.Chunk) (int, error) { return 0, nil }

func (m *mockIndexService) Reset(context.Context) error { return nil }

func (m *mockIndexService) Stats(context.Context) (*domain.IndexStats, error) {
	return m.stats, m.err
}

type mockIngestService struct {
	paths  []string
	report *domain.IngestReport
	err    error
}

func (m *mockIngestService) Ingest(context.Context, []domain.SourceFile) (*domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockIngestService) IngestPaths(_ context.Context, paths []string) (*domain.IngestReport, error) {
	m.paths = paths
	return m.report, m.err
}

func newPorts() *Ports {
	return &Ports{
		Query: &mockQueryService{},
		Index: &mockIndexService{stats: &domain.IndexStats{Entries: 4, Backend: "sqlite"}},
	}
}
