package badger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// chunkRecord is the stored form of an embedded text chunk. The chunk id
// doubles as the badgerhold key; records from different collections share
// the bucket and are separated by the Collection field.
type chunkRecord struct {
	ChunkID     string `badgerhold:"key"`
	Collection  string `badgerholdIndex:"Collection"`
	Vector      []float32
	Text        string
	Source      string
	Category    string
	Page        int
	ChunkIndex  int
	TotalChunks int
	FilePath    string
	CreatedAt   time.Time
}

// collectionMeta pins the embedding dimension of a collection. The first
// successful Add establishes the dimension; later writes must match.
type collectionMeta struct {
	Name      string `badgerhold:"key"`
	Dimension int
	UpdatedAt time.Time
}

// VectorStorage implements the VectorStorage interface on Badger with a
// brute-force L2 scan. Collection sizes here are a few thousand chunks,
// well within scan range.
type VectorStorage struct {
	db         *BadgerDB
	collection string
	logger     arbor.ILogger

	// Guards batch visibility: readers never observe a half-written batch.
	mu sync.RWMutex
}

// NewVectorStorage creates a VectorStorage bound to a named collection.
func NewVectorStorage(db *BadgerDB, collection string, logger arbor.ILogger) interfaces.VectorStorage {
	return &VectorStorage{
		db:         db,
		collection: collection,
		logger:     logger,
	}
}

var _ interfaces.VectorStorage = (*VectorStorage)(nil)

func (s *VectorStorage) Add(ctx context.Context, chunks []models.TextChunk, embeddings map[string][]float32) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMeta()
	if err != nil {
		return err
	}

	added := 0
	skipped := 0
	for i := range chunks {
		chunk := chunks[i]
		vector, ok := embeddings[chunk.ChunkID]
		if !ok || len(vector) == 0 {
			skipped++
			s.logger.Warn().
				Str("chunk_id", chunk.ChunkID).
				Str("source", chunk.Source).
				Msg("Skipping chunk without embedding")
			continue
		}

		if meta.Dimension == 0 {
			meta.Dimension = len(vector)
		} else if len(vector) != meta.Dimension {
			return fmt.Errorf("chunk %s has dimension %d, collection %s expects %d: %w",
				chunk.ChunkID, len(vector), s.collection, meta.Dimension, interfaces.ErrDimensionMismatch)
		}

		record := &chunkRecord{
			ChunkID:     chunk.ChunkID,
			Collection:  s.collection,
			Vector:      vector,
			Text:        chunk.Text,
			Source:      chunk.Source,
			Category:    chunk.Category,
			Page:        chunk.Page,
			ChunkIndex:  chunk.ChunkIndex,
			TotalChunks: chunk.TotalChunks,
			FilePath:    chunk.FilePath,
			CreatedAt:   time.Now(),
		}
		if err := s.db.Store().Upsert(record.ChunkID, record); err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", chunk.ChunkID, err)
		}
		added++
	}

	if added > 0 {
		meta.Name = s.collection
		meta.UpdatedAt = time.Now()
		if err := s.db.Store().Upsert(meta.Name, meta); err != nil {
			return fmt.Errorf("failed to update collection metadata: %w", err)
		}
	}

	s.logger.Debug().
		Str("collection", s.collection).
		Int("added", added).
		Int("skipped", skipped).
		Msg("Stored chunk batch")

	return nil
}

func (s *VectorStorage) Query(ctx context.Context, vector []float32, topK int, categoryFilter string) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.loadMeta()
	if err != nil {
		return nil, err
	}
	if meta.Dimension > 0 && len(vector) != meta.Dimension {
		return nil, fmt.Errorf("query vector has dimension %d, collection %s expects %d: %w",
			len(vector), s.collection, meta.Dimension, interfaces.ErrDimensionMismatch)
	}

	query := badgerhold.Where("Collection").Eq(s.collection)
	if categoryFilter != "" {
		query = query.And("Category").Eq(categoryFilter)
	}

	var records []chunkRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", s.collection, err)
	}

	results := make([]models.RetrievedChunk, 0, len(records))
	for i := range records {
		results = append(results, models.RetrievedChunk{
			Chunk:    recordToChunk(&records[i]),
			Distance: l2Distance(vector, records[i].Vector),
		})
	}

	// Ties break on chunk id so results are deterministic.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func (s *VectorStorage) Get(ctx context.Context, chunkID string) (*models.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record chunkRecord
	if err := s.db.Store().Get(chunkID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chunk %s: %w", chunkID, err)
	}
	if record.Collection != s.collection {
		return nil, nil
	}
	return &models.RetrievedChunk{Chunk: recordToChunk(&record)}, nil
}

func (s *VectorStorage) Statistics(ctx context.Context) (*models.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.loadMeta()
	if err != nil {
		return nil, err
	}

	var records []chunkRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("Collection").Eq(s.collection)); err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", s.collection, err)
	}

	stats := &models.CollectionStats{
		TotalChunks: len(records),
		Categories:  make(map[string]models.CategoryStats),
		Collection:  s.collection,
		Dimension:   meta.Dimension,
	}

	sources := make(map[string]map[string]struct{})
	for i := range records {
		category := records[i].Category
		entry := stats.Categories[category]
		entry.Count++
		if sources[category] == nil {
			sources[category] = make(map[string]struct{})
		}
		sources[category][records[i].Source] = struct{}{}
		entry.Sources = len(sources[category])
		stats.Categories[category] = entry
	}

	return stats, nil
}

func (s *VectorStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Store().DeleteMatching(&chunkRecord{}, badgerhold.Where("Collection").Eq(s.collection)); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", s.collection, err)
	}
	if err := s.db.Store().Delete(s.collection, &collectionMeta{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to clear collection metadata: %w", err)
	}

	s.logger.Info().Str("collection", s.collection).Msg("Collection cleared")
	return nil
}

// loadMeta returns the collection metadata, or a zero record when the
// collection has never been written.
func (s *VectorStorage) loadMeta() (*collectionMeta, error) {
	var meta collectionMeta
	if err := s.db.Store().Get(s.collection, &meta); err != nil {
		if err == badgerhold.ErrNotFound {
			return &collectionMeta{Name: s.collection}, nil
		}
		return nil, fmt.Errorf("failed to load collection metadata: %w", err)
	}
	return &meta, nil
}

func recordToChunk(r *chunkRecord) models.TextChunk {
	return models.TextChunk{
		Text:        r.Text,
		ChunkID:     r.ChunkID,
		Source:      r.Source,
		Category:    r.Category,
		Page:        r.Page,
		ChunkIndex:  r.ChunkIndex,
		TotalChunks: r.TotalChunks,
		FilePath:    r.FilePath,
	}
}

// l2Distance returns the Euclidean distance between two vectors of equal
// length.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
