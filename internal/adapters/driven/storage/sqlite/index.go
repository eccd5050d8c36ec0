package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// DBFileName is the database file inside the data directory.
const DBFileName = "index.db"

// VectorIndex is a SQLite-backed vector index rooted at a data directory.
type VectorIndex struct {
	mu      sync.RWMutex
	db      *sql.DB // nil after DestroyAll until the next operation
	dataDir string
}

// NewVectorIndex opens (creating if needed) the index in dataDir.
// If dataDir is empty, defaults to ~/.pdfrag/index.
func NewVectorIndex(dataDir string) (*VectorIndex, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pdfrag", "index")
	}

	v := &VectorIndex{dataDir: dataDir}
	if err := v.open(); err != nil {
		return nil, err
	}
	return v, nil
}

// open creates the data directory and database. Caller holds mu for writing
// (or has exclusive access during construction).
func (v *VectorIndex) open() error {
	if err := os.MkdirAll(v.dataDir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", v.Path()+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return fmt.Errorf("running migrations: %w", err)
	}

	v.db = db
	return nil
}

// handle returns the open database, reopening it after a reset.
// The returned release func must be called when the caller is done.
func (v *VectorIndex) handle() (*sql.DB, func(), error) {
	for {
		v.mu.RLock()
		if v.db != nil {
			return v.db, v.mu.RUnlock, nil
		}
		v.mu.RUnlock()

		v.mu.Lock()
		if v.db == nil {
			if err := v.open(); err != nil {
				v.mu.Unlock()
				return nil, nil, err
			}
		}
		v.mu.Unlock()
	}
}

// Path returns the database file path.
func (v *VectorIndex) Path() string {
	return filepath.Join(v.dataDir, DBFileName)
}

// DataDir returns the directory removed by DestroyAll.
func (v *VectorIndex) DataDir() string {
	return v.dataDir
}

// ListIDs returns the IDs of all stored entries.
func (v *VectorIndex) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	db, release, err := v.handle()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, "SELECT id FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Upsert stores an entry. An existing ID keeps its original entry.
func (v *VectorIndex) Upsert(ctx context.Context, entry domain.IndexEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: entry without id", domain.ErrInvalidInput)
	}

	db, release, err := v.handle()
	if err != nil {
		return err
	}
	defer release()

	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO chunks (id, content, source, page, embedding)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Content, entry.Metadata.Source, entry.Metadata.Page,
		float32SliceToBytes(entry.Embedding))
	if err != nil {
		return fmt.Errorf("inserting chunk %s: %w", entry.ID, err)
	}
	return nil
}

// SimilaritySearch returns the k entries closest to the query vector.
// Entries are scanned in insertion order so that ties rank stably.
func (v *VectorIndex) SimilaritySearch(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	db, release, err := v.handle()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx,
		"SELECT id, content, source, page, embedding FROM chunks ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var e domain.IndexEntry
		var blob []byte
		if err := rows.Scan(&e.ID, &e.Content, &e.Metadata.Source, &e.Metadata.Page, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		e.Embedding = bytesToFloat32Slice(blob)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return storage.RankByCosine(query, entries, k), nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	db, release, err := v.handle()
	if err != nil {
		return 0, err
	}
	defer release()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Persist checkpoints the write-ahead log into the database file.
func (v *VectorIndex) Persist(ctx context.Context) error {
	db, release, err := v.handle()
	if err != nil {
		return err
	}
	defer release()

	var busy, logFrames, checkpointed int
	err = db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &logFrames, &checkpointed)
	if err != nil {
		return fmt.Errorf("checkpointing wal: %w", err)
	}
	return nil
}

// DestroyAll closes the database and removes the data directory.
// It succeeds when nothing exists.
func (v *VectorIndex) DestroyAll(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var errs []error
	if v.db != nil {
		if err := v.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
		v.db = nil
	}
	if err := os.RemoveAll(v.dataDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("removing data directory: %w", err))
	}
	return errors.Join(errs...)
}

// Backend returns "sqlite".
func (v *VectorIndex) Backend() string {
	return domain.IndexBackendSQLite.String()
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.db == nil {
		return nil
	}
	err := v.db.Close()
	v.db = nil
	return err
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
