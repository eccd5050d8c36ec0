package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// watchDebounce collects bursts of events, such as a file written in
// several chunks, into one ingest.
var watchDebounce = 500 * time.Millisecond

// watchedExtensions are the file types the extractors understand.
var watchedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".html": true,
	".htm":  true,
	".txt":  true,
	".md":   true,
}

func isWatchedFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return watchedExtensions[strings.ToLower(filepath.Ext(path))]
}

// watchAndIngest ingests the files already in dir, then ingests files as
// they are created or written until ctx is cancelled.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	existing, err := listWatchedFiles(dir)
	if err != nil {
		return err
	}
	ingestBatch(ctx, cmd, existing)

	cmd.Printf("Watching %s for new documents (Ctrl+C to stop)\n", dir)

	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isWatchedFile(event.Name) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			pending[event.Name] = struct{}{}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			ingestBatch(ctx, cmd, paths)
		}
	}
}

// ingestBatch ingests paths and reports the outcome. Failures are printed,
// not returned, so the watcher keeps running.
func ingestBatch(ctx context.Context, cmd *cobra.Command, paths []string) {
	if len(paths) == 0 {
		return
	}
	report, err := ingestService.IngestPaths(ctx, paths)
	if report != nil {
		if perr := printReport(cmd, report); perr != nil {
			logger.Warn("print report: %v", perr)
		}
	}
	if err != nil {
		cmd.PrintErrf("ingest failed: %v\n", err)
	}
}

func listWatchedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if isWatchedFile(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
