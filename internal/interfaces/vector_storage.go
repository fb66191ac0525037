package interfaces

import (
	"context"
	"errors"

	"github.com/lunahealth/luna/internal/models"
)

// ErrDimensionMismatch is returned when an embedding's dimension differs
// from the collection's established dimension. Detected at write time.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// VectorStorage is a durable named collection of (id, vector, text,
// metadata) records with nearest-neighbor query. Lower distance means
// more similar (L2 convention).
type VectorStorage interface {
	// Add inserts chunks with their embeddings in one atomic batch.
	// A chunk without an embedding is skipped with a warning. Re-adding
	// an existing id replaces the stored record (upsert).
	Add(ctx context.Context, chunks []models.TextChunk, embeddings map[string][]float32) error

	// Query returns up to topK records ordered by ascending distance.
	// When categoryFilter is non-empty only exact category matches are
	// eligible; topK applies after filtering.
	Query(ctx context.Context, vector []float32, topK int, categoryFilter string) ([]models.RetrievedChunk, error)

	// Get is a point lookup; returns (nil, nil) when the id is absent.
	Get(ctx context.Context, chunkID string) (*models.RetrievedChunk, error)

	// Statistics reports total and per-category record counts.
	Statistics(ctx context.Context) (*models.CollectionStats, error)

	// Clear destroys all records of the collection. Idempotent: clearing
	// an empty collection is a no-op.
	Clear(ctx context.Context) error
}
