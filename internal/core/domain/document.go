package domain

// Document is a named source (usually a file name) with its extracted pages.
type Document struct {
	// Source names the document. It is the first component of every ChunkID
	// derived from this document, so it must be stable across runs.
	Source string

	// Pages holds the extracted text in page order.
	Pages []Page
}

// Page is one page of raw text belonging to a document.
type Page struct {
	// Number is the zero-based page number.
	Number int

	// Content is the raw extracted text.
	Content string
}

// ChunkMetadata records where a chunk came from.
type ChunkMetadata struct {
	// Source is the owning document's source name.
	Source string `json:"source"`

	// Page is the zero-based page number within the source.
	Page int `json:"page"`
}

// Chunk is a bounded window of text cut from exactly one page.
// Chunks from the same page form an ordered sequence; adjacent chunks
// may share overlapping text.
type Chunk struct {
	// ID is the ChunkID assigned by the identifier. Empty until identified.
	ID string

	// Content is the text of this window.
	Content string

	// Metadata links the chunk to its source and page.
	Metadata ChunkMetadata
}

// IndexEntry is the persistent record of one chunk in the vector index.
// Entries are created once and never mutated; only a full reset removes them.
type IndexEntry struct {
	// ID is the ChunkID.
	ID string

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Metadata is copied from the chunk.
	Metadata ChunkMetadata
}

// RetrievalResult is one ranked hit for a query. It is never persisted.
type RetrievalResult struct {
	// ChunkID identifies the stored chunk. Empty when the index holds no ID.
	ChunkID string `json:"chunk_id"`

	// Content is the stored chunk text.
	Content string `json:"content"`

	// Score is the similarity; higher means more relevant.
	Score float64 `json:"score"`

	// Metadata is the stored chunk metadata.
	Metadata ChunkMetadata `json:"metadata"`
}

// UnknownSource marks a retrieved chunk whose ID metadata is missing.
const UnknownSource = "unknown"

// Answer is the output of the answer composer.
type Answer struct {
	// Text is the generated answer, returned verbatim.
	Text string `json:"response"`

	// Sources lists the ChunkIDs used as context, in ranking order.
	Sources []string `json:"sources"`
}

// SourceFile is a file handed to ingestion.
type SourceFile struct {
	// Name becomes the Document.Source, e.g. the uploaded file name.
	Name string

	// Path is where the bytes live on local disk.
	Path string

	// MIMEType is optional; extractors fall back to the file extension.
	MIMEType string
}

// DocumentFailure records a document that could not be extracted.
type DocumentFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// IngestReport summarises one ingest call.
type IngestReport struct {
	// Documents is the number of files received.
	Documents int `json:"documents"`

	// Extracted is the number of files that produced pages.
	Extracted int `json:"extracted"`

	// Chunks is the number of chunks produced by the splitter.
	Chunks int `json:"chunks"`

	// Added is the number of chunks newly written to the index.
	Added int `json:"added"`

	// Failures lists per-document extraction failures.
	Failures []DocumentFailure `json:"failures,omitempty"`
}

// IndexStats describes the current state of the vector index.
type IndexStats struct {
	Entries int    `json:"entries"`
	Backend string `json:"backend"`
}
