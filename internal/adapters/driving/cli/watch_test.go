package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isWatchedFile("/docs/rules.pdf"))
	assert.True(t, isWatchedFile("/docs/NOTES.MD"))
	assert.True(t, isWatchedFile("readme.txt"))
	assert.False(t, isWatchedFile("/docs/.rules.pdf"))
	assert.False(t, isWatchedFile("/docs/sheet.xlsx"))
	assert.False(t, isWatchedFile("/docs/pdf"))
}

func TestListWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.txt", ".hidden.pdf", "image.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0700))

	paths, err := listWatchedFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.pdf")}, paths)

	_, err = listWatchedFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWatchAndIngest(t *testing.T) {
	originalDebounce := watchDebounce
	watchDebounce = 20 * time.Millisecond
	ingest := &mockIngestService{}
	ingestService = ingest
	t.Cleanup(func() {
		watchDebounce = originalDebounce
		ingestService = nil
	})

	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.pdf")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0600))

	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndIngest(ctx, cmd, dir) }()

	require.Eventually(t, func() bool { return len(ingest.Calls()) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{existing}, ingest.Calls()[0])

	added := filepath.Join(dir, "added.md")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.png"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(added, []byte("# new"), 0600))

	require.Eventually(t, func() bool { return len(ingest.Calls()) >= 2 }, 5*time.Second, 10*time.Millisecond)
	for _, call := range ingest.Calls()[1:] {
		assert.Equal(t, []string{added}, call)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchAndIngest_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	cmd := &cobra.Command{}
	err := watchAndIngest(context.Background(), cmd, file)
	assert.ErrorContains(t, err, "not a directory")

	err = watchAndIngest(context.Background(), cmd, filepath.Join(file, "missing"))
	assert.Error(t, err)
}
