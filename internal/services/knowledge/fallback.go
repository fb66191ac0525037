package knowledge

import (
	"context"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// FallbackRetriever tries a primary backend and falls back to a secondary
// when the primary errors or returns no usable answer.
type FallbackRetriever struct {
	primary   interfaces.Retriever
	secondary interfaces.Retriever
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*FallbackRetriever)(nil)

// NewFallbackRetriever composes two retrieval backends
func NewFallbackRetriever(primary, secondary interfaces.Retriever, logger arbor.ILogger) *FallbackRetriever {
	return &FallbackRetriever{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Name identifies the composite by its primary backend
func (r *FallbackRetriever) Name() string { return r.primary.Name() }

// Retrieve consults the primary first. Failed answers are annotated with
// fallback availability; the secondary only runs when the primary cannot
// answer.
func (r *FallbackRetriever) Retrieve(ctx context.Context, query string, opts interfaces.RetrieveOptions) (*models.Answer, error) {
	answer, err := r.primary.Retrieve(ctx, query, opts)
	if err == nil && answer.Success {
		answer.FallbackAvailable = r.secondary != nil
		return answer, nil
	}
	if err != nil {
		r.logger.Warn().Err(err).
			Str("backend", r.primary.Name()).
			Msg("Primary retrieval failed, consulting fallback")
	}

	if r.secondary == nil {
		if err != nil {
			return nil, err
		}
		return answer, nil
	}

	fallbackAnswer, fallbackErr := r.secondary.Retrieve(ctx, query, opts)
	if fallbackErr != nil {
		if err != nil {
			return nil, err
		}
		r.logger.Warn().Err(fallbackErr).
			Str("backend", r.secondary.Name()).
			Msg("Fallback retrieval failed")
		return answer, nil
	}
	return fallbackAnswer, nil
}
