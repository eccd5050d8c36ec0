package driving

import (
	"context"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
)

// IndexService synchronises identified chunks into the persistent index.
type IndexService interface {
	// Sync upserts the chunks whose IDs are not yet indexed and returns
	// how many were added. Running it twice on the same input adds 0.
	Sync(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Reset destroys the entire index. It succeeds when no index exists.
	Reset(ctx context.Context) error

	// Stats reports the current index size.
	Stats(ctx context.Context) (*domain.IndexStats, error)
}

// IngestService turns source files into indexed chunks.
type IngestService interface {
	// Ingest extracts, splits, identifies and syncs the files.
	// Extraction failures are reported per document in the report.
	Ingest(ctx context.Context, files []domain.SourceFile) (*domain.IngestReport, error)

	// IngestPaths ingests local files, using each path as the source name.
	IngestPaths(ctx context.Context, paths []string) (*domain.IngestReport, error)
}
