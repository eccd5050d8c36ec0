package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

func TestIngest(t *testing.T) {
	ingest := &mockIngestService{report: &domain.IngestReport{
		Documents: 2, Extracted: 1, Chunks: 7, Added: 7,
		Failures: []domain.DocumentFailure{{Source: "broken.pdf", Error: "no text"}},
	}}

	out, err := execute(t, &Services{Ingest: ingest}, "ingest", "rules.pdf", "broken.pdf")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"rules.pdf", "broken.pdf"}}, ingest.Calls())
	assert.Contains(t, out, "Documents: 2 (extracted 1)")
	assert.Contains(t, out, "Chunks:    7 (added 7)")
	assert.Contains(t, out, "failed: broken.pdf: no text")
}

func TestIngest_JSON(t *testing.T) {
	ingest := &mockIngestService{report: &domain.IngestReport{Documents: 1, Extracted: 1, Chunks: 3, Added: 2}}

	out, err := execute(t, &Services{Ingest: ingest}, "ingest", "--json", "a.pdf")
	require.NoError(t, err)

	var report domain.IngestReport
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &report))
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 3, report.Chunks)
}

func TestIngest_ErrorStillPrintsReport(t *testing.T) {
	ingest := &mockIngestService{
		report: &domain.IngestReport{Documents: 1},
		err:    errors.New("index unavailable"),
	}

	out, err := execute(t, &Services{Ingest: ingest}, "ingest", "a.pdf")
	assert.ErrorContains(t, err, "ingest failed: index unavailable")
	assert.Contains(t, out, "Documents: 1 (extracted 0)")
}

func TestIngest_RequiresFilesOrWatch(t *testing.T) {
	_, err := execute(t, &Services{Ingest: &mockIngestService{}}, "ingest")
	assert.ErrorContains(t, err, "requires at least one file")
}

func TestIngest_NoService(t *testing.T) {
	_, err := execute(t, nil, "ingest", "a.pdf")
	assert.ErrorIs(t, err, errNoIngest)
}

func TestQuery_Answer(t *testing.T) {
	query := &mockQueryService{answer: &domain.Answer{
		Text:    "  Each player gets 1500.\n",
		Sources: []string{"monopoly.pdf:3:0", "monopoly.pdf:4:2"},
	}}

	out, err := execute(t, &Services{Query: query}, "query", "how", "much", "money?")
	require.NoError(t, err)

	assert.Equal(t, "how much money?", query.lastQuery)
	assert.Equal(t, "Each player gets 1500.\n\nSources:\n  - monopoly.pdf:3:0\n  - monopoly.pdf:4:2\n", out)
}

func TestQuery_JSONHasEmptySources(t *testing.T) {
	query := &mockQueryService{answer: &domain.Answer{Text: "I don't know."}}

	out, err := execute(t, &Services{Query: query}, "query", "--json", "anything")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "I don't know.", got["response"])
	assert.Equal(t, []any{}, got["sources"])
}

func TestQuery_RetrieveOnly(t *testing.T) {
	query := &mockQueryService{results: []domain.RetrievalResult{
		{ChunkID: "a.pdf:0:0", Content: "first\n\nchunk", Score: 0.9},
		{Content: "orphan", Score: 0.5},
	}}

	out, err := execute(t, &Services{Query: query}, "query", "--retrieve-only", "-k", "3", "topic")
	require.NoError(t, err)

	assert.Equal(t, 3, query.lastK)
	assert.Contains(t, out, "[1] a.pdf:0:0 (0.900)")
	assert.Contains(t, out, "first chunk")
	assert.Contains(t, out, "[2] unknown (0.500)")
}

func TestQuery_RetrieveOnlyDefaultsTopK(t *testing.T) {
	query := &mockQueryService{}

	out, err := execute(t, &Services{Query: query}, "query", "--retrieve-only", "topic")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTopK, query.lastK)
	assert.Contains(t, out, "No chunks found. Ingest documents first.")
}

func TestQuery_Error(t *testing.T) {
	query := &mockQueryService{err: domain.ErrLLMUnavailable}

	_, err := execute(t, &Services{Query: query}, "query", "q")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestQuery_RequiresQuestion(t *testing.T) {
	_, err := execute(t, &Services{Query: &mockQueryService{}}, "query")
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("  a\n\tb   c "))

	long := strings.Repeat("é", snippetLength+10)
	got := snippet(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, snippetLength+3, len([]rune(got)))
}

func withTerminal(t *testing.T, isTerminal bool) {
	t.Helper()
	original := stdinIsTerminal
	stdinIsTerminal = func() bool { return isTerminal }
	t.Cleanup(func() { stdinIsTerminal = original })
}

func TestReset_Force(t *testing.T) {
	withTerminal(t, false)
	index := &mockIndexService{}

	out, err := execute(t, &Services{Index: index}, "reset", "--force")
	require.NoError(t, err)
	assert.Equal(t, 1, index.resetCalls)
	assert.Contains(t, out, "Database reset successfully.")
}

func TestReset_RefusesWithoutTerminal(t *testing.T) {
	withTerminal(t, false)
	index := &mockIndexService{}

	_, err := execute(t, &Services{Index: index}, "reset")
	assert.ErrorContains(t, err, "refusing to reset without --force")
	assert.Zero(t, index.resetCalls)
}

func TestReset_Prompt(t *testing.T) {
	withTerminal(t, true)

	t.Run("confirmed", func(t *testing.T) {
		index := &mockIndexService{}
		out, err := executeWithInput(t, &Services{Index: index}, "yes\n", "reset")
		require.NoError(t, err)
		assert.Equal(t, 1, index.resetCalls)
		assert.Contains(t, out, "Delete the entire index? [y/N]: ")
	})

	t.Run("declined", func(t *testing.T) {
		index := &mockIndexService{}
		out, err := executeWithInput(t, &Services{Index: index}, "\n", "reset")
		require.NoError(t, err)
		assert.Zero(t, index.resetCalls)
		assert.Contains(t, out, "Aborted.")
	})
}

func TestReset_Error(t *testing.T) {
	index := &mockIndexService{resetErr: domain.ErrVectorIndexUnavailable}

	_, err := execute(t, &Services{Index: index}, "reset", "-f")
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestStatus(t *testing.T) {
	index := &mockIndexService{stats: &domain.IndexStats{Entries: 42, Backend: "sqlite"}}

	out, err := execute(t, &Services{Index: index, Settings: newMockSettings()}, "status")
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Contains(t, out, "Index:     sqlite, 42 chunks")
	assert.Contains(t, out, "Embedding: ollama ("+defaults.Embedding.Model+")")
	assert.Contains(t, out, "LLM:       ollama ("+defaults.LLM.Model+")")
}

func TestStatus_WithoutSettings(t *testing.T) {
	out, err := execute(t, &Services{Index: &mockIndexService{}}, "status")
	require.NoError(t, err)
	assert.Equal(t, "Index:     memory, 0 chunks\n", out)
}

func TestStatus_StatsError(t *testing.T) {
	index := &mockIndexService{statsErr: errors.New("db locked")}

	_, err := execute(t, &Services{Index: index}, "status")
	assert.ErrorContains(t, err, "db locked")
}

func TestServe_RequiresServices(t *testing.T) {
	_, err := execute(t, &Services{Query: &mockQueryService{}}, "serve", "--addr", "127.0.0.1:0")
	assert.Error(t, err)
}

func TestMCPServe_RequiresServices(t *testing.T) {
	_, err := execute(t, &Services{Index: &mockIndexService{}}, "mcp", "serve")
	assert.Error(t, err)
}

func TestAsk_RequiresQueryService(t *testing.T) {
	_, err := execute(t, &Services{Index: &mockIndexService{}}, "ask")
	assert.ErrorContains(t, err, "failed to create TUI")
}

func TestIngest_HelpPointsEditsAtReset(t *testing.T) {
	assert.Contains(t, ingestCmd.Long, "pdfrag reset")
	assert.NotContains(t, ingestCmd.Long, "changed files are ingested")
	assert.NotContains(t, ingestCmd.Flags().Lookup("watch").Usage, "changed")
}
