// -----------------------------------------------------------------------
// Tracking Service - Symptom and cycle logging with validation and
// summary aggregation
// -----------------------------------------------------------------------

package tracking

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// Service implements symptom and cycle tracking over TrackingStorage
type Service struct {
	storage  interfaces.TrackingStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a tracking service
func NewService(storage interfaces.TrackingStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		validate: validator.New(),
		logger:   logger,
	}
}

// AddSymptom validates and persists a symptom entry, assigning id and
// timestamps. Unknown symptom types are rejected.
func (s *Service) AddSymptom(entry *models.SymptomEntry) (*models.SymptomEntry, error) {
	if !validSymptomType(entry.SymptomType) {
		return nil, fmt.Errorf("unknown symptom type %q, expected one of %v", entry.SymptomType, models.SymptomTypes)
	}
	if err := s.validate.Struct(entry); err != nil {
		return nil, fmt.Errorf("invalid symptom entry: %w", err)
	}

	entry.ID = common.NewSymptomID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.CreatedAt = time.Now()

	if err := s.storage.SaveSymptom(entry); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("id", entry.ID).
		Str("type", entry.SymptomType).
		Int("intensity", entry.Intensity).
		Msg("Symptom logged")
	return entry, nil
}

// ListSymptoms returns entries matching the filter, newest first
func (s *Service) ListSymptoms(filter interfaces.SymptomFilter) ([]*models.SymptomEntry, error) {
	return s.storage.ListSymptoms(filter)
}

// DeleteSymptom removes an entry by id
func (s *Service) DeleteSymptom(id string) error {
	return s.storage.DeleteSymptom(id)
}

// SymptomSummary aggregates entries over the past windowDays
func (s *Service) SymptomSummary(windowDays int) (*models.SymptomSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	entries, err := s.storage.ListSymptoms(interfaces.SymptomFilter{Since: since})
	if err != nil {
		return nil, err
	}

	summary := &models.SymptomSummary{
		WindowDays:   windowDays,
		TotalEntries: len(entries),
		ByType:       make(map[string]int),
		AvgIntensity: make(map[string]float64),
	}

	intensitySums := make(map[string]int)
	for _, entry := range entries {
		summary.ByType[entry.SymptomType]++
		intensitySums[entry.SymptomType] += entry.Intensity

		ts := entry.Timestamp
		if summary.FirstRecorded == nil || ts.Before(*summary.FirstRecorded) {
			t := ts
			summary.FirstRecorded = &t
		}
		if summary.LastRecorded == nil || ts.After(*summary.LastRecorded) {
			t := ts
			summary.LastRecorded = &t
		}
	}

	best := 0
	for symptomType, count := range summary.ByType {
		summary.AvgIntensity[symptomType] = float64(intensitySums[symptomType]) / float64(count)
		if count > best || (count == best && symptomType < summary.MostFrequent) {
			best = count
			summary.MostFrequent = symptomType
		}
	}
	return summary, nil
}

// AddCycle validates and persists a cycle entry
func (s *Service) AddCycle(entry *models.CycleEntry) (*models.CycleEntry, error) {
	if err := s.validate.Struct(entry); err != nil {
		return nil, fmt.Errorf("invalid cycle entry: %w", err)
	}
	if entry.EndDate != nil && entry.EndDate.Before(entry.StartDate) {
		return nil, fmt.Errorf("cycle end date %s precedes start date %s",
			entry.EndDate.Format("2006-01-02"), entry.StartDate.Format("2006-01-02"))
	}

	entry.ID = common.NewCycleID()
	entry.CreatedAt = time.Now()

	if err := s.storage.SaveCycle(entry); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("id", entry.ID).
		Str("start", entry.StartDate.Format("2006-01-02")).
		Msg("Cycle logged")
	return entry, nil
}

// ListCycles returns cycles, most recent start first
func (s *Service) ListCycles(limit int) ([]*models.CycleEntry, error) {
	return s.storage.ListCycles(limit)
}

// CloseCycle sets the end date of an open cycle
func (s *Service) CloseCycle(id string, endDate time.Time) (*models.CycleEntry, error) {
	entry, err := s.storage.GetCycle(id)
	if err != nil {
		return nil, err
	}
	if entry.EndDate != nil {
		return nil, fmt.Errorf("cycle %s is already closed", id)
	}
	if endDate.Before(entry.StartDate) {
		return nil, fmt.Errorf("cycle end date %s precedes start date %s",
			endDate.Format("2006-01-02"), entry.StartDate.Format("2006-01-02"))
	}

	entry.EndDate = &endDate
	if err := s.storage.SaveCycle(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CycleSummary aggregates completed cycles. Regularity requires at least
// two complete cycles; lengths within a 7 day spread count as regular.
func (s *Service) CycleSummary() (*models.CycleSummary, error) {
	cycles, err := s.storage.ListCycles(0)
	if err != nil {
		return nil, err
	}

	summary := &models.CycleSummary{
		TotalCycles: len(cycles),
		Regularity:  "insufficient_data",
	}

	var lengths []int
	for _, cycle := range cycles {
		if cycle.EndDate == nil {
			continue
		}
		days := int(cycle.EndDate.Sub(cycle.StartDate).Hours()/24) + 1
		lengths = append(lengths, days)
	}
	summary.CompleteCycles = len(lengths)
	if len(lengths) == 0 {
		return summary, nil
	}

	sum := 0
	summary.MinLengthDays = lengths[0]
	summary.MaxLengthDays = lengths[0]
	for _, days := range lengths {
		sum += days
		if days < summary.MinLengthDays {
			summary.MinLengthDays = days
		}
		if days > summary.MaxLengthDays {
			summary.MaxLengthDays = days
		}
	}
	summary.AvgLengthDays = float64(sum) / float64(len(lengths))

	if len(lengths) >= 2 {
		if summary.MaxLengthDays-summary.MinLengthDays <= 7 {
			summary.Regularity = "regular"
		} else {
			summary.Regularity = "irregular"
		}
	}
	return summary, nil
}

func validSymptomType(symptomType string) bool {
	for _, known := range models.SymptomTypes {
		if known == symptomType {
			return true
		}
	}
	return false
}
