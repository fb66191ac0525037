package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// TrackingStorage implements the TrackingStorage interface for Badger
type TrackingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewTrackingStorage creates a new TrackingStorage instance
func NewTrackingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.TrackingStorage {
	return &TrackingStorage{
		db:     db,
		logger: logger,
	}
}

var _ interfaces.TrackingStorage = (*TrackingStorage)(nil)

func (s *TrackingStorage) SaveSymptom(entry *models.SymptomEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("symptom entry ID is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save symptom entry: %w", err)
	}
	return nil
}

func (s *TrackingStorage) ListSymptoms(filter interfaces.SymptomFilter) ([]*models.SymptomEntry, error) {
	query := &badgerhold.Query{}
	if filter.SymptomType != "" {
		query = badgerhold.Where("SymptomType").Eq(filter.SymptomType)
	}

	var entries []models.SymptomEntry
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list symptom entries: %w", err)
	}

	result := make([]*models.SymptomEntry, 0, len(entries))
	for i := range entries {
		if !filter.Since.IsZero() && entries[i].Timestamp.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && entries[i].Timestamp.After(filter.Until) {
			continue
		}
		result = append(result, &entries[i])
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *TrackingStorage) DeleteSymptom(id string) error {
	if err := s.db.Store().Delete(id, &models.SymptomEntry{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to delete symptom entry: %w", err)
	}
	return nil
}

func (s *TrackingStorage) SaveCycle(entry *models.CycleEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("cycle entry ID is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save cycle entry: %w", err)
	}
	return nil
}

func (s *TrackingStorage) GetCycle(id string) (*models.CycleEntry, error) {
	var entry models.CycleEntry
	if err := s.db.Store().Get(id, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cycle entry: %w", err)
	}
	return &entry, nil
}

func (s *TrackingStorage) ListCycles(limit int) ([]*models.CycleEntry, error) {
	var entries []models.CycleEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list cycle entries: %w", err)
	}

	result := make([]*models.CycleEntry, 0, len(entries))
	for i := range entries {
		result = append(result, &entries[i])
	}

	// Most recent start date first
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
