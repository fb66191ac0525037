package interfaces

import (
	"context"
	"errors"

	"github.com/lunahealth/luna/internal/models"
)

// ErrNotBuilt is returned when a retrieval backend is queried before its
// index has been built.
var ErrNotBuilt = errors.New("knowledge index not built")

// RetrieveOptions configures a single retrieval call.
type RetrieveOptions struct {
	// TopK is the maximum number of candidate chunks (default 5)
	TopK int

	// CategoryFilter restricts results to one category when non-empty
	CategoryFilter string
}

// Retriever answers a natural-language question from an evidence index.
// Implementations: vector store retrieval over the ingested corpus, and
// the curated built-in document fallback.
type Retriever interface {
	// Retrieve returns a structured answer. Zero matches yields a
	// well-formed failure answer, not an error; errors signal backend
	// faults (store unavailable, index not built).
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) (*models.Answer, error)

	// Name identifies the backend ("vector", "curated")
	Name() string
}
