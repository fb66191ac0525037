package models

// SourceRef is a single cited source in an answer payload.
type SourceRef struct {
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Page           int     `json:"page,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
	ChunkPreview   string  `json:"chunk_preview,omitempty"`
}

// Answer is the structured result of a knowledge base query. On failure,
// Message carries a user-facing explanation and Context is empty; callers
// never receive a raw error through this payload.
type Answer struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`

	// Assembled evidence text (populated on success)
	Context string `json:"context,omitempty"`

	// User-facing failure explanation (populated on failure)
	Message string `json:"message,omitempty"`

	Sources    []SourceRef `json:"sources,omitempty"`
	NumSources int         `json:"num_sources"`

	// Similarity of the single best retrieval result, in [0,1]
	Confidence float64 `json:"confidence"`

	CategoryFilter   string `json:"category_filter,omitempty"`
	TotalChunksFound int    `json:"total_chunks_found"`

	// True when a secondary retrieval backend could be consulted
	FallbackAvailable bool `json:"fallback_available,omitempty"`

	// Retrieval backend that produced this answer ("vector", "curated")
	System string `json:"system,omitempty"`
}
