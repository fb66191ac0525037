package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiEncoder implements the Encoder interface on the Gemini embedding
// API. Calls are rate limited to stay inside the free-tier quota.
type GeminiEncoder struct {
	client    *genai.Client
	model     string
	dimension int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Encoder = (*GeminiEncoder)(nil)

// NewGeminiEncoder creates a Gemini-backed encoder from configuration
func NewGeminiEncoder(ctx context.Context, geminiConfig *common.GeminiConfig, dimension int, logger arbor.ILogger) (*GeminiEncoder, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("gemini API key not configured (set GEMINI_API_KEY)")
	}

	interval, err := time.ParseDuration(geminiConfig.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit duration '%s': %w", geminiConfig.RateLimit, err)
	}
	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Info().
		Str("model", geminiConfig.EmbedModel).
		Int("dimension", dimension).
		Str("rate_limit", geminiConfig.RateLimit).
		Msg("Gemini encoder initialized")

	return &GeminiEncoder{
		client:    client,
		model:     geminiConfig.EmbedModel,
		dimension: dimension,
		timeout:   timeout,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		logger:    logger,
	}, nil
}

// EncodeBatch embeds each text via the Gemini API, preserving input order.
func (e *GeminiEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
		vector, err := e.encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to encode text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimension reports the configured output dimensionality
func (e *GeminiEncoder) Dimension() int {
	return e.dimension
}

func (e *GeminiEncoder) encode(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outputDim := int32(e.dimension)
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := e.client.Models.EmbedContent(callCtx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, config)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var vector []float32
	if result != nil && len(result.Embeddings) > 0 {
		vector = result.Embeddings[0].Values
	}
	if vector == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", e.dimension, len(vector))
	}
	return vector, nil
}
