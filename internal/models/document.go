package models

// SourceDocument represents a single corpus document after text extraction.
// Documents are created once per ingestion run from an immutable file and
// never mutated afterwards.
type SourceDocument struct {
	// Extracted, normalized text content
	Text string `json:"text"`

	// Source filename (e.g., "rotterdam_criteria_2023.pdf")
	Source string `json:"source"`

	// Category derived from the containing directory ("1_guidelines" -> "guidelines")
	Category string `json:"category"`

	// Number of pages in the source file (0 when unknown, e.g. plain text)
	PageCount int `json:"page_count"`

	// Absolute or corpus-relative path to the source file
	FilePath string `json:"file_path"`

	// Extraction method that produced the text ("pdfcpu", "rawscan", "html", "plaintext")
	ExtractionMethod string `json:"extraction_method"`
}

// TextChunk is a bounded, semantically coherent span of a source document's
// text - the atomic unit of retrieval. Chunks are immutable once created.
type TextChunk struct {
	Text string `json:"text"`

	// Deterministic id derived from source, index and a text prefix.
	// Re-chunking identical input yields identical ids.
	ChunkID string `json:"chunk_id"`

	Source   string `json:"source"`
	Category string `json:"category"`

	// Approximate page number, interpolated from chunk position (minimum 1)
	Page int `json:"page"`

	// Ordinal index within the document
	ChunkIndex int `json:"chunk_index"`

	// Total surviving chunks for the document, backfilled after filtering
	TotalChunks int `json:"total_chunks"`

	FilePath string `json:"file_path"`
}

// ChunkManifest is the audit record written once per ingestion run.
type ChunkManifest struct {
	TotalChunks int         `json:"total_chunks"`
	Chunks      []TextChunk `json:"chunks"`
}

// RetrievedChunk pairs a stored chunk with its query distance.
// Lower distance means more similar.
type RetrievedChunk struct {
	Chunk    TextChunk `json:"chunk"`
	Distance float64   `json:"distance"`
}

// CategoryStats aggregates per-category collection counts.
type CategoryStats struct {
	Count   int `json:"count"`
	Sources int `json:"num_sources"`
}

// CollectionStats describes the state of a vector store collection.
type CollectionStats struct {
	TotalChunks int                      `json:"total_chunks"`
	Categories  map[string]CategoryStats `json:"categories"`
	Collection  string                   `json:"collection_name"`
	Dimension   int                      `json:"dimension"`
}
