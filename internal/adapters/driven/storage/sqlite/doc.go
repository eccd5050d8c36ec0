// Package sqlite provides the on-disk vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Chunk text, metadata and
// embeddings live in a single index.db file inside the index data
// directory; similarity is computed in Go over the stored vectors.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration records its own version.
//
// # Reset
//
// DestroyAll closes the database and removes the whole data directory.
// The next operation recreates it empty.
//
// # Thread Safety
//
// All operations are thread-safe. SQLite runs in WAL mode with a busy
// timeout; the connection handle itself is guarded by a RWMutex so that a
// reset cannot close it under a running query.
package sqlite
