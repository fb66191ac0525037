package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/lunahealth/luna/internal/services/chunking"
	"github.com/lunahealth/luna/internal/services/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory VectorStorage for pipeline tests
type memoryStore struct {
	records map[string]models.TextChunk
	vectors map[string][]float32
	cleared int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string]models.TextChunk),
		vectors: make(map[string][]float32),
	}
}

func (m *memoryStore) Add(ctx context.Context, chunks []models.TextChunk, embeddings map[string][]float32) error {
	for _, chunk := range chunks {
		vector, ok := embeddings[chunk.ChunkID]
		if !ok {
			continue
		}
		m.records[chunk.ChunkID] = chunk
		m.vectors[chunk.ChunkID] = vector
	}
	return nil
}

func (m *memoryStore) Query(ctx context.Context, vector []float32, topK int, categoryFilter string) ([]models.RetrievedChunk, error) {
	var results []models.RetrievedChunk
	for _, chunk := range m.records {
		if categoryFilter != "" && chunk.Category != categoryFilter {
			continue
		}
		results = append(results, models.RetrievedChunk{Chunk: chunk, Distance: 0.5})
		if len(results) == topK {
			break
		}
	}
	return results, nil
}

func (m *memoryStore) Get(ctx context.Context, chunkID string) (*models.RetrievedChunk, error) {
	chunk, ok := m.records[chunkID]
	if !ok {
		return nil, nil
	}
	return &models.RetrievedChunk{Chunk: chunk}, nil
}

func (m *memoryStore) Statistics(ctx context.Context) (*models.CollectionStats, error) {
	return &models.CollectionStats{TotalChunks: len(m.records)}, nil
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.cleared++
	m.records = make(map[string]models.TextChunk)
	m.vectors = make(map[string][]float32)
	return nil
}

func noOpts() interfaces.RetrieveOptions {
	return interfaces.RetrieveOptions{}
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "1_guidelines")
	require.NoError(t, os.MkdirAll(dir, 0755))

	text := strings.Repeat("Diagnosis requires two of three findings in adults. ", 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "criteria.txt"), []byte(text), 0644))
	return root
}

func testConfig(t *testing.T, corpusDir string) *common.Config {
	config := common.NewDefaultConfig()
	config.Corpus.Dir = corpusDir
	config.Corpus.ManifestPath = filepath.Join(t.TempDir(), "chunks.json")
	config.Chunking = common.ChunkingConfig{ChunkSize: 30, Overlap: 5, MinChunkSize: 2}
	return config
}

func newTestKnowledge(t *testing.T, config *common.Config, store *memoryStore) *Service {
	t.Helper()
	logger := common.GetLogger()
	svc, err := NewService(
		extraction.NewService(logger),
		chunking.NewChunker(&config.Chunking, logger),
		&fakeEmbedding{},
		store,
		config,
		logger,
	)
	require.NoError(t, err)
	return svc
}

func TestService_BuildAndQuery(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	store := newMemoryStore()
	svc := newTestKnowledge(t, config, store)

	assert.Equal(t, StateUninitialized, svc.State())
	assert.False(t, svc.IsReady())

	require.NoError(t, svc.Build(context.Background(), false))
	assert.Equal(t, StateReady, svc.State())
	assert.NotEmpty(t, store.records)

	answer, err := svc.Query(context.Background(), "how is it diagnosed?", noOpts())
	require.NoError(t, err)
	assert.True(t, answer.Success)
}

func TestService_QueryTriggersOnDemandBuild(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	store := newMemoryStore()
	svc := newTestKnowledge(t, config, store)

	answer, err := svc.Query(context.Background(), "what are the findings?", noOpts())
	require.NoError(t, err)
	assert.True(t, svc.IsReady())
	assert.True(t, answer.Success)
}

func TestService_BuildFailsOnMissingCorpus(t *testing.T) {
	config := testConfig(t, filepath.Join(t.TempDir(), "missing"))
	svc := newTestKnowledge(t, config, newMemoryStore())

	err := svc.Build(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, StateUninitialized, svc.State())
}

func TestService_ForceRebuildClearsCollection(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	store := newMemoryStore()
	svc := newTestKnowledge(t, config, store)

	require.NoError(t, svc.Build(context.Background(), false))
	assert.Equal(t, 0, store.cleared)

	require.NoError(t, svc.Build(context.Background(), true))
	assert.Equal(t, 1, store.cleared)
	assert.Equal(t, StateReady, svc.State())
}

func TestService_WritesManifest(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	svc := newTestKnowledge(t, config, newMemoryStore())

	require.NoError(t, svc.Build(context.Background(), false))

	data, err := os.ReadFile(config.Corpus.ManifestPath)
	require.NoError(t, err)

	var manifest models.ChunkManifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, len(manifest.Chunks), manifest.TotalChunks)
	require.NotEmpty(t, manifest.Chunks)
	assert.Equal(t, "criteria.txt", manifest.Chunks[0].Source)
	assert.Equal(t, "guidelines", manifest.Chunks[0].Category)
}

func TestService_QueryTextReturnsRawChunks(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	store := newMemoryStore()
	svc := newTestKnowledge(t, config, store)

	_, err := svc.QueryText(context.Background(), "diagnosis", 3, "")
	require.ErrorIs(t, err, interfaces.ErrNotBuilt)

	require.NoError(t, svc.Build(context.Background(), false))

	chunks, err := svc.QueryText(context.Background(), "diagnosis", 3, "")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "guidelines", chunks[0].Chunk.Category)

	chunks, err = svc.QueryText(context.Background(), "diagnosis", 3, "nutrition")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestService_AlreadyPopulatedStoreIsReady(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	store := newMemoryStore()
	store.records["seed"] = models.TextChunk{ChunkID: "seed", Text: "existing"}

	svc := newTestKnowledge(t, config, store)
	assert.True(t, svc.IsReady())
}

func TestService_UnknownModeRejected(t *testing.T) {
	config := testConfig(t, writeCorpus(t))
	config.Knowledge.Mode = "psychic"
	logger := common.GetLogger()
	_, err := NewService(
		extraction.NewService(logger),
		chunking.NewChunker(&config.Chunking, logger),
		&fakeEmbedding{},
		newMemoryStore(),
		config,
		logger,
	)
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
