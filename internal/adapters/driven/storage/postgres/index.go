// Package postgres provides a vector index on PostgreSQL with the pgvector
// extension. Similarity ranking runs in the database using the cosine
// distance operator.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pgvector/pgvector-go"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// VectorIndex stores chunk vectors in a single pgvector table.
type VectorIndex struct {
	db         *sql.DB
	table      string
	dimensions int
}

// NewVectorIndex connects to dsn and creates the extension and table if
// needed. A dimensions value of 0 leaves the vector column unsized.
func NewVectorIndex(ctx context.Context, dsn, table string, dimensions int) (*VectorIndex, error) {
	if table == "" {
		table = domain.DefaultPostgresTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: table name %q", domain.ErrInvalidInput, table)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	v := &VectorIndex{db: db, table: table, dimensions: dimensions}
	if err := v.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return v, nil
}

func (v *VectorIndex) migrate(ctx context.Context) error {
	column := "vector"
	if v.dimensions > 0 {
		column = fmt.Sprintf("vector(%d)", v.dimensions)
	}

	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source TEXT NOT NULL,
			page INTEGER NOT NULL,
			embedding %s,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`, v.table, column),
	}

	for _, m := range migrations {
		if _, err := v.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Table returns the table name.
func (v *VectorIndex) Table() string {
	return v.table
}

// ListIDs returns the IDs of all stored entries.
func (v *VectorIndex) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := v.db.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s`, v.table))
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
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

	_, err := v.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, content, source, page, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, v.table), entry.ID, entry.Content, entry.Metadata.Source, entry.Metadata.Page,
		pgvector.NewVector(entry.Embedding))
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", entry.ID, err)
	}
	return nil
}

// SimilaritySearch returns the k entries closest to the query vector.
// Equal distances are ordered by insertion.
func (v *VectorIndex) SimilaritySearch(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	rows, err := v.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, content, source, page, embedding, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, seq
		LIMIT $2
	`, v.table), pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	hits := []driven.VectorHit{}
	for rows.Next() {
		var (
			e     domain.IndexEntry
			vec   pgvector.Vector
			score sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Content, &e.Metadata.Source, &e.Metadata.Page, &vec, &score); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Embedding = vec.Slice()
		hits = append(hits, driven.VectorHit{Entry: e, Similarity: score.Float64})
	}

	return hits, rows.Err()
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	if err := v.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, v.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// Persist is a no-op: every statement is committed on execution.
func (v *VectorIndex) Persist(_ context.Context) error {
	return nil
}

// DestroyAll drops the table and recreates it empty.
func (v *VectorIndex) DestroyAll(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, v.table)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	return v.migrate(ctx)
}

// Backend returns "postgres".
func (v *VectorIndex) Backend() string {
	return domain.IndexBackendPostgres.String()
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}
