// -----------------------------------------------------------------------
// Embedding Service - Map text to fixed-dimension vectors with domain
// acronym expansion and fixed-size batching
// -----------------------------------------------------------------------

package embeddings

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Service implements the EmbeddingService interface on a pluggable Encoder
type Service struct {
	encoder   interfaces.Encoder
	expander  *AcronymExpander
	batchSize int
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*Service)(nil)

// NewService creates an embedding service. The expander is nil when
// acronym expansion is disabled.
func NewService(encoder interfaces.Encoder, embeddingConfig *common.EmbeddingConfig, logger arbor.ILogger) (*Service, error) {
	batchSize := embeddingConfig.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	var expander *AcronymExpander
	if embeddingConfig.ExpandAcronyms {
		var err error
		expander, err = NewAcronymExpander(embeddingConfig.AcronymsFile)
		if err != nil {
			return nil, err
		}
	}

	return &Service{
		encoder:   encoder,
		expander:  expander,
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// EmbedText embeds a single text
func (s *Service) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}
	vectors, err := s.encoder.EncodeBatch(ctx, []string{s.preprocess(text)})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("encoder returned %d vectors for 1 text", len(vectors))
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in fixed-size batches. Vector i always
// corresponds to text i; batch boundaries never change results because
// each vector depends only on its own text.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prepared := make([]string, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("cannot embed empty text at index %d", i)
		}
		prepared[i] = s.preprocess(text)
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(prepared); start += s.batchSize {
		end := start + s.batchSize
		if end > len(prepared) {
			end = len(prepared)
		}
		batch, err := s.encoder.EncodeBatch(ctx, prepared[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d failed: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(batch), end-start)
		}
		vectors = append(vectors, batch...)

		s.logger.Debug().
			Int("from", start).
			Int("to", end).
			Int("total", len(prepared)).
			Msg("Embedded batch")
	}
	return vectors, nil
}

// Dimension reports the encoder's fixed vector dimension
func (s *Service) Dimension() int {
	return s.encoder.Dimension()
}

// CosineSimilarity between two vectors. Zero-norm input yields 0, never NaN.
func (s *Service) CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func (s *Service) preprocess(text string) string {
	if s.expander == nil {
		return text
	}
	return s.expander.Expand(text)
}
