package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

type mockIngestService struct {
	mu     sync.Mutex
	report *domain.IngestReport
	err    error
	calls  [][]string
}

func (m *mockIngestService) Ingest(_ context.Context, files []domain.SourceFile) (*domain.IngestReport, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return m.IngestPaths(context.Background(), paths)
}

func (m *mockIngestService) IngestPaths(_ context.Context, paths []string) (*domain.IngestReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), paths...))
	report := m.report
	if report == nil {
		report = &domain.IngestReport{Documents: len(paths), Extracted: len(paths)}
	}
	return report, m.err
}

func (m *mockIngestService) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

type mockIndexService struct {
	stats      *domain.IndexStats
	statsErr   error
	resetErr   error
	resetCalls int
}

func (m *mockIndexService) Sync(_ context.Context, chunks []domain.Chunk) (int, error) {
	return len(chunks), nil
}

func (m *mockIndexService) Reset(_ context.Context) error {
	m.resetCalls++
	return m.resetErr
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.IndexStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats == nil {
		return &domain.IndexStats{Backend: "memory"}, nil
	}
	return m.stats, nil
}

type mockQueryService struct {
	answer  *domain.Answer
	results []domain.RetrievalResult
	err     error

	lastQuery string
	lastK     int
}

func (m *mockQueryService) Retrieve(_ context.Context, q string, k int) ([]domain.RetrievalResult, error) {
	m.lastQuery, m.lastK = q, k
	return m.results, m.err
}

func (m *mockQueryService) Answer(_ context.Context, q string) (*domain.Answer, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	setErr      error
	validateErr error
	embedErr    error
	llmErr      error

	setKey, setValue string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.setErr
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "llm.provider"}
}

func (m *mockSettingsService) Validate() error { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embedErr }
func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

// resetFlags restores every flag of cmd and its children to its default,
// since cobra keeps parsed values in package variables between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with injected services and returns the
// combined output.
func execute(t *testing.T, svc *Services, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, svc, "", args...)
}

func executeWithInput(t *testing.T, svc *Services, input string, args ...string) (string, error) {
	t.Helper()
	return run(t, svc, nil, input, args...)
}

func run(t *testing.T, svc *Services, boot Bootstrapper, input string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	SetServices(nil)
	settingsService = nil
	SetServices(svc)
	SetBootstrapper(boot)
	t.Cleanup(func() {
		SetServices(nil)
		settingsService = nil
		SetBootstrapper(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)

	err := Execute(context.Background())
	return buf.String(), err
}
