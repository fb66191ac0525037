// -----------------------------------------------------------------------
// Knowledge Service - Owns the ingestion pipeline and question answering
// over the embedded document corpus
// -----------------------------------------------------------------------

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/lunahealth/luna/internal/services/workers"
	"github.com/ternarybob/arbor"
)

// State is the knowledge base lifecycle state
type State string

const (
	StateUninitialized State = "uninitialized"
	StateBuilding      State = "building"
	StateReady         State = "ready"
)

// embedWorkers bounds concurrent embedding batches during ingestion
const embedWorkers = 4

// Service coordinates extraction, chunking, embedding and storage, and
// answers queries through the configured retriever.
type Service struct {
	extractor interfaces.DocumentExtractor
	chunker   interfaces.Chunker
	embedding interfaces.EmbeddingService
	store     interfaces.VectorStorage
	retriever interfaces.Retriever
	config    *common.Config
	logger    arbor.ILogger

	mu    sync.Mutex
	state State
}

// NewService wires the pipeline and selects the retrieval backend from
// config: "vector", "curated", or "auto" (vector with curated fallback).
// A collection that already holds chunks makes the service Ready at once.
func NewService(
	extractor interfaces.DocumentExtractor,
	chunker interfaces.Chunker,
	embedding interfaces.EmbeddingService,
	store interfaces.VectorStorage,
	config *common.Config,
	logger arbor.ILogger,
) (*Service, error) {
	s := &Service{
		extractor: extractor,
		chunker:   chunker,
		embedding: embedding,
		store:     store,
		config:    config,
		logger:    logger,
		state:     StateUninitialized,
	}

	switch config.Knowledge.Mode {
	case "vector":
		s.retriever = NewVectorRetriever(store, embedding, &config.Knowledge, logger)
	case "curated":
		s.retriever = NewCuratedRetriever(logger)
	case "auto", "":
		s.retriever = NewFallbackRetriever(
			NewVectorRetriever(store, embedding, &config.Knowledge, logger),
			NewCuratedRetriever(logger),
			logger)
	default:
		return nil, fmt.Errorf("unknown knowledge mode: %s", config.Knowledge.Mode)
	}

	if stats, err := store.Statistics(context.Background()); err == nil && stats.TotalChunks > 0 {
		s.state = StateReady
		logger.Info().
			Int("chunks", stats.TotalChunks).
			Msg("Knowledge base already populated")
	}

	return s, nil
}

// State reports the current lifecycle state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsReady reports readiness without side effects
func (s *Service) IsReady() bool {
	return s.State() == StateReady
}

// EnsureReady builds the knowledge base if it has not been built yet
func (s *Service) EnsureReady(ctx context.Context) error {
	if s.IsReady() {
		return nil
	}
	return s.Build(ctx, false)
}

// Build runs the full ingestion pipeline: extract, chunk, embed, store,
// and write the chunk manifest. With force, the collection is cleared
// first. A failed build returns the service to Uninitialized.
func (s *Service) Build(ctx context.Context, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady && !force {
		return nil
	}
	s.state = StateBuilding

	err := s.build(ctx, force)
	if err != nil {
		s.state = StateUninitialized
		return err
	}
	s.state = StateReady
	return nil
}

func (s *Service) build(ctx context.Context, force bool) error {
	s.logger.Info().
		Str("corpus", s.config.Corpus.Dir).
		Bool("force", force).
		Msg("Building knowledge base")

	docs, err := s.extractor.ExtractDir(ctx, s.config.Corpus.Dir)
	if err != nil {
		return fmt.Errorf("corpus extraction failed: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no usable documents in corpus directory %s", s.config.Corpus.Dir)
	}

	chunks := s.chunker.ChunkDocuments(docs)
	if len(chunks) == 0 {
		return fmt.Errorf("chunking produced no chunks from %d documents", len(docs))
	}

	embeddings, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	if force {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
	}
	if err := s.store.Add(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	if err := s.writeManifest(chunks); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write chunk manifest")
	}

	s.logger.Info().
		Int("documents", len(docs)).
		Int("chunks", len(chunks)).
		Msg("Knowledge base build complete")
	return nil
}

// embedChunks embeds chunk texts in parallel batches. Results land in a
// map keyed by chunk id, so batch completion order is irrelevant.
func (s *Service) embedChunks(ctx context.Context, chunks []models.TextChunk) (map[string][]float32, error) {
	batchSize := s.config.Embedding.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	embeddings := make(map[string][]float32, len(chunks))
	var mu sync.Mutex

	pool := workers.NewPool(embedWorkers, s.logger)
	pool.Start()

	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := pool.Submit(func(jobCtx context.Context) error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Text
			}
			vectors, err := s.embedding.EmbedBatch(ctx, texts)
			if err != nil {
				return err
			}
			mu.Lock()
			for i := range batch {
				embeddings[batch[i].ChunkID] = vectors[i]
			}
			mu.Unlock()
			return nil
		}); err != nil {
			pool.Shutdown()
			return nil, err
		}
	}

	pool.Wait()
	if errs := pool.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return embeddings, nil
}

// writeManifest records every stored chunk's metadata as a JSON audit
// file, once per ingestion run.
func (s *Service) writeManifest(chunks []models.TextChunk) error {
	path := s.config.Corpus.ManifestPath
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	manifest := models.ChunkManifest{
		TotalChunks: len(chunks),
		Chunks:      chunks,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Query answers a question, building the knowledge base on demand when it
// has never been built.
func (s *Service) Query(ctx context.Context, query string, opts interfaces.RetrieveOptions) (*models.Answer, error) {
	if s.config.Knowledge.Mode != "curated" {
		if err := s.EnsureReady(ctx); err != nil {
			return nil, fmt.Errorf("knowledge base build failed: %w", err)
		}
	}
	return s.retriever.Retrieve(ctx, query, opts)
}

// QueryText embeds a text query and returns the raw nearest chunks,
// without answer assembly. The knowledge base must already be built.
func (s *Service) QueryText(ctx context.Context, text string, topK int, category string) ([]models.RetrievedChunk, error) {
	if s.embedding == nil {
		return nil, fmt.Errorf("text queries require an embedding backend")
	}
	if !s.IsReady() {
		return nil, interfaces.ErrNotBuilt
	}
	if topK <= 0 {
		topK = s.config.Knowledge.TopK
	}

	vector, err := s.embedding.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.store.Query(ctx, vector, topK, category)
}

// Stats reports collection statistics plus lifecycle state
func (s *Service) Stats(ctx context.Context) (*models.CollectionStats, State, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return nil, s.State(), err
	}
	return stats, s.State(), nil
}
