package knowledge

import (
	"context"
	"fmt"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves canned query results
type fakeStore struct {
	results []models.RetrievedChunk
	total   int
}

func (f *fakeStore) Add(ctx context.Context, chunks []models.TextChunk, embeddings map[string][]float32) error {
	return nil
}

func (f *fakeStore) Query(ctx context.Context, vector []float32, topK int, categoryFilter string) ([]models.RetrievedChunk, error) {
	results := f.results
	if categoryFilter != "" {
		filtered := results[:0:0]
		for _, r := range results {
			if r.Chunk.Category == categoryFilter {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (f *fakeStore) Get(ctx context.Context, chunkID string) (*models.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeStore) Statistics(ctx context.Context) (*models.CollectionStats, error) {
	return &models.CollectionStats{TotalChunks: f.total}, nil
}

func (f *fakeStore) Clear(ctx context.Context) error { return nil }

// fakeEmbedding returns a constant vector
type fakeEmbedding struct{}

func (f *fakeEmbedding) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (f *fakeEmbedding) Dimension() int                         { return 3 }
func (f *fakeEmbedding) CosineSimilarity(a, b []float32) float64 { return 0 }

func retrieved(id, source, category string, distance float64) models.RetrievedChunk {
	return models.RetrievedChunk{
		Chunk: models.TextChunk{
			Text:     "Content of " + id,
			ChunkID:  id,
			Source:   source,
			Category: category,
			Page:     1,
		},
		Distance: distance,
	}
}

func defaultKnowledgeConfig() *common.KnowledgeConfig {
	return &common.KnowledgeConfig{
		TopK:              5,
		DistanceThreshold: 1.5,
		ContextLimit:      3,
		MaxSources:        5,
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity(0), 1e-9)
	assert.InDelta(t, 0.5, Similarity(1), 1e-9)
	assert.InDelta(t, 0.0, Similarity(2), 1e-9)
	assert.Equal(t, 0.0, Similarity(3), "clamped at zero")

	// Monotone: closer chunks always score higher
	assert.Greater(t, Similarity(0.2), Similarity(0.9))
}

func TestVectorRetriever_EmptyCollection(t *testing.T) {
	r := NewVectorRetriever(&fakeStore{total: 0}, &fakeEmbedding{}, defaultKnowledgeConfig(), common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "what are the symptoms?", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.False(t, answer.Success)
	assert.NotEmpty(t, answer.Message)
	assert.Empty(t, answer.Context)
	assert.Equal(t, "vector", answer.System)
}

func TestVectorRetriever_AssemblesAnswer(t *testing.T) {
	store := &fakeStore{
		total: 10,
		results: []models.RetrievedChunk{
			retrieved("c1", "guide.pdf", "guidelines", 0.4),
			retrieved("c2", "diet.pdf", "nutrition", 0.8),
			retrieved("c3", "guide.pdf", "guidelines", 1.2),
		},
	}
	r := NewVectorRetriever(store, &fakeEmbedding{}, defaultKnowledgeConfig(), common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "how is it diagnosed?", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.True(t, answer.Success)
	assert.Contains(t, answer.Context, "Content of c1")
	assert.Contains(t, answer.Context, "Content of c3")
	assert.Equal(t, 3, answer.TotalChunksFound)
	assert.InDelta(t, Similarity(0.4), answer.Confidence, 1e-9)

	// c1 and c3 share (source, category): deduplicated, first seen wins
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "guide.pdf", answer.Sources[0].Title)
	assert.InDelta(t, Similarity(0.4), answer.Sources[0].RelevanceScore, 1e-9)
}

func TestVectorRetriever_ThresholdFallbackToBest(t *testing.T) {
	store := &fakeStore{
		total: 10,
		results: []models.RetrievedChunk{
			retrieved("c1", "guide.pdf", "guidelines", 1.8),
			retrieved("c2", "diet.pdf", "nutrition", 1.9),
		},
	}
	r := NewVectorRetriever(store, &fakeEmbedding{}, defaultKnowledgeConfig(), common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "obscure question", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.True(t, answer.Success)
	assert.Equal(t, "Content of c1", answer.Context, "only the single best result survives")
	require.Len(t, answer.Sources, 1)
	assert.InDelta(t, Similarity(1.8), answer.Confidence, 1e-9)
}

func TestVectorRetriever_SourceCap(t *testing.T) {
	store := &fakeStore{total: 100}
	for i := 0; i < 8; i++ {
		store.results = append(store.results,
			retrieved(fmt.Sprintf("c%d", i), fmt.Sprintf("doc%d.pdf", i), "guidelines", 0.1*float64(i)))
	}
	config := defaultKnowledgeConfig()
	config.TopK = 10
	config.MaxSources = 5
	r := NewVectorRetriever(store, &fakeEmbedding{}, config, common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "broad question", interfaces.RetrieveOptions{TopK: 10})
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 5)
	assert.Equal(t, 5, answer.NumSources)
}

func TestVectorRetriever_CategoryFilter(t *testing.T) {
	store := &fakeStore{
		total: 10,
		results: []models.RetrievedChunk{
			retrieved("c1", "guide.pdf", "guidelines", 0.4),
			retrieved("c2", "diet.pdf", "nutrition", 0.6),
		},
	}
	r := NewVectorRetriever(store, &fakeEmbedding{}, defaultKnowledgeConfig(), common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "what should I eat?",
		interfaces.RetrieveOptions{CategoryFilter: "nutrition"})
	require.NoError(t, err)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "nutrition", answer.Sources[0].Category)
	assert.Equal(t, "nutrition", answer.CategoryFilter)
}

func TestVectorRetriever_EmptyQuery(t *testing.T) {
	r := NewVectorRetriever(&fakeStore{total: 1}, &fakeEmbedding{}, defaultKnowledgeConfig(), common.GetLogger())
	_, err := r.Retrieve(context.Background(), "  ", interfaces.RetrieveOptions{})
	require.Error(t, err)
}

func TestCuratedRetriever_MatchesAndFilters(t *testing.T) {
	r := NewCuratedRetriever(common.GetLogger())

	answer, err := r.Retrieve(context.Background(), "What diet improves insulin sensitivity?",
		interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.True(t, answer.Success)
	assert.Equal(t, "curated", answer.System)
	assert.NotEmpty(t, answer.Sources)

	filtered, err := r.Retrieve(context.Background(), "What diet improves insulin sensitivity?",
		interfaces.RetrieveOptions{CategoryFilter: "nutrition"})
	require.NoError(t, err)
	for _, source := range filtered.Sources {
		assert.Equal(t, "nutrition", source.Category)
	}

	miss, err := r.Retrieve(context.Background(), "zzzz qqqq xxxx", interfaces.RetrieveOptions{})
	require.NoError(t, err)
	assert.False(t, miss.Success)
}
