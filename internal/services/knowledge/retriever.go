package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// Similarity converts an L2 distance to a similarity score in [0,1].
// The same transform backs relevance scores and answer confidence.
func Similarity(distance float64) float64 {
	s := 1 - distance/2
	if s < 0 {
		return 0
	}
	return s
}

// VectorRetriever answers questions from the embedded corpus in the
// vector store.
type VectorRetriever struct {
	store     interfaces.VectorStorage
	embedding interfaces.EmbeddingService
	config    *common.KnowledgeConfig
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*VectorRetriever)(nil)

// NewVectorRetriever creates a retriever over the vector store
func NewVectorRetriever(store interfaces.VectorStorage, embedding interfaces.EmbeddingService, config *common.KnowledgeConfig, logger arbor.ILogger) *VectorRetriever {
	return &VectorRetriever{
		store:     store,
		embedding: embedding,
		config:    config,
		logger:    logger,
	}
}

// Name identifies the backend
func (r *VectorRetriever) Name() string { return "vector" }

// Retrieve embeds the query, searches the store and assembles an answer.
// Zero matches produce a structured failure answer, not an error.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, opts interfaces.RetrieveOptions) (*models.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = r.config.TopK
	}

	stats, err := r.store.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection statistics: %w", err)
	}
	if stats.TotalChunks == 0 {
		return &models.Answer{
			Success:        false,
			Query:          query,
			Message:        "The knowledge base is empty. Run ingestion to index the document corpus.",
			CategoryFilter: opts.CategoryFilter,
			System:         r.Name(),
		}, nil
	}

	vector, err := r.embedding.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.store.Query(ctx, vector, topK, opts.CategoryFilter)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	if len(results) == 0 {
		return &models.Answer{
			Success:        false,
			Query:          query,
			Message:        "No relevant information found for this question.",
			CategoryFilter: opts.CategoryFilter,
			System:         r.Name(),
		}, nil
	}

	return r.assemble(query, opts.CategoryFilter, results), nil
}

// assemble applies the distance threshold, deduplicates sources and builds
// the answer payload. When nothing passes the threshold, the single best
// result is used so the caller always gets evidence with low confidence.
func (r *VectorRetriever) assemble(query, categoryFilter string, results []models.RetrievedChunk) *models.Answer {
	passing := make([]models.RetrievedChunk, 0, len(results))
	for _, result := range results {
		if result.Distance <= r.config.DistanceThreshold {
			passing = append(passing, result)
		}
	}
	if len(passing) == 0 {
		r.logger.Debug().
			Float64("best_distance", results[0].Distance).
			Msg("No result under threshold, falling back to best match")
		passing = results[:1]
	}

	contextLimit := r.config.ContextLimit
	if contextLimit <= 0 {
		contextLimit = 3
	}
	contextChunks := passing
	if len(contextChunks) > contextLimit {
		contextChunks = contextChunks[:contextLimit]
	}

	var contextBuilder strings.Builder
	for i, result := range contextChunks {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(result.Chunk.Text)
	}

	// Deduplicate sources by (source, category), first seen wins
	maxSources := r.config.MaxSources
	if maxSources <= 0 {
		maxSources = 5
	}
	seen := make(map[string]bool)
	sources := make([]models.SourceRef, 0, maxSources)
	for _, result := range passing {
		key := result.Chunk.Source + "\x00" + result.Chunk.Category
		if seen[key] {
			continue
		}
		seen[key] = true
		sources = append(sources, models.SourceRef{
			Title:          result.Chunk.Source,
			Category:       result.Chunk.Category,
			Page:           result.Chunk.Page,
			RelevanceScore: Similarity(result.Distance),
			ChunkPreview:   preview(result.Chunk.Text, 150),
		})
		if len(sources) == maxSources {
			break
		}
	}

	return &models.Answer{
		Success:          true,
		Query:            query,
		Context:          contextBuilder.String(),
		Sources:          sources,
		NumSources:       len(sources),
		Confidence:       Similarity(passing[0].Distance),
		CategoryFilter:   categoryFilter,
		TotalChunksFound: len(results),
		System:           r.Name(),
	}
}

func preview(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "..."
}
