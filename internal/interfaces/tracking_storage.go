package interfaces

import (
	"errors"
	"time"

	"github.com/lunahealth/luna/internal/models"
)

// ErrNotFound is returned by point lookups for missing records.
var ErrNotFound = errors.New("record not found")

// SymptomFilter narrows symptom listings.
type SymptomFilter struct {
	SymptomType string
	Since       time.Time
	Until       time.Time
	Limit       int
}

// TrackingStorage persists symptom and cycle entries. The RAG pipeline
// never touches this store.
type TrackingStorage interface {
	SaveSymptom(entry *models.SymptomEntry) error
	ListSymptoms(filter SymptomFilter) ([]*models.SymptomEntry, error)
	DeleteSymptom(id string) error

	SaveCycle(entry *models.CycleEntry) error
	GetCycle(id string) (*models.CycleEntry, error)
	ListCycles(limit int) ([]*models.CycleEntry, error)
}
