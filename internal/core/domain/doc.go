// Package domain defines the core business entities for pdfrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A named source with ordered pages of extracted text
//   - Page: One page of raw text belonging to a document
//   - Chunk: An overlapping window of text cut from one page
//   - IndexEntry: The persisted form of an identified, embedded chunk
//   - RetrievalResult: A ranked chunk returned for a query
//   - Answer: Generated text plus the chunk IDs used as context
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
