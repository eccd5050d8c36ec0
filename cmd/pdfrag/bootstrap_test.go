package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/cli"
)

func TestBootstrapper_SettingsIsCached(t *testing.T) {
	b := &bootstrapper{}
	opts := cli.Options{ConfigDir: t.TempDir()}

	first, err := b.Settings(opts)
	require.NoError(t, err)
	second, err := b.Settings(opts)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestBootstrapper_ServicesWithMemoryIndex(t *testing.T) {
	t.Setenv("PDFRAG_INDEX_BACKEND", "memory")
	dir := t.TempDir()

	b := &bootstrapper{}
	svc, err := b.Services(context.Background(), cli.Options{ConfigDir: dir})
	require.NoError(t, err)

	assert.NotNil(t, svc.Ingest)
	assert.NotNil(t, svc.Index)
	assert.NotNil(t, svc.Query)
	assert.NotNil(t, svc.Settings)

	stats, err := svc.Index.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "memory", stats.Backend)
	assert.Zero(t, stats.Entries)

	require.NotNil(t, svc.Close)
	assert.NoError(t, svc.Close())
}

func TestBootstrapper_BadConfigDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	b := &bootstrapper{}
	_, err := b.Settings(cli.Options{ConfigDir: filepath.Join(file, "sub")})
	assert.Error(t, err)
}
