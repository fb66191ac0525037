package interfaces

import "context"

// Encoder is the pluggable numeric encoding capability behind the
// embedding service. Output order matches input order; each vector
// depends only on its own text.
type Encoder interface {
	EncodeBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// EmbeddingService maps text to fixed-dimension vectors, applying domain
// acronym expansion before encoding.
type EmbeddingService interface {
	// EmbedText embeds a single text (chunk body or query)
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds texts in fixed-size batches. Order preserving:
	// vector i corresponds to text i regardless of batch grouping.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the fixed vector dimension
	Dimension() int

	// CosineSimilarity between two vectors; returns 0 when either has
	// zero norm
	CosineSimilarity(a, b []float32) float64
}
