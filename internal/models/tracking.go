package models

import "time"

// Symptom types form a small controlled vocabulary; "other" is the catch-all.
const (
	SymptomCramps        = "cramps"
	SymptomHeadache      = "headache"
	SymptomAcne          = "acne"
	SymptomWeightGain    = "weight_gain"
	SymptomHairLoss      = "hair_loss"
	SymptomHirsutism     = "hirsutism"
	SymptomIrregularFlow = "irregular_cycle"
	SymptomPelvicPain    = "pelvic_pain"
	SymptomFatigue       = "fatigue"
	SymptomAnxiety       = "anxiety"
	SymptomDepression    = "depression"
	SymptomOther         = "other"
)

// SymptomTypes lists the accepted symptom vocabulary.
var SymptomTypes = []string{
	SymptomCramps, SymptomHeadache, SymptomAcne, SymptomWeightGain,
	SymptomHairLoss, SymptomHirsutism, SymptomIrregularFlow,
	SymptomPelvicPain, SymptomFatigue, SymptomAnxiety, SymptomDepression,
	SymptomOther,
}

// SymptomEntry is a single logged symptom observation.
type SymptomEntry struct {
	ID          string    `json:"id"`
	SymptomType string    `json:"symptom_type" validate:"required"`
	Intensity   int       `json:"intensity" validate:"required,gte=1,lte=10"`
	Notes       string    `json:"notes" validate:"max=500"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
}

// CycleEntry is a single logged menstrual cycle. EndDate is nil while the
// cycle is open.
type CycleEntry struct {
	ID            string     `json:"id"`
	StartDate     time.Time  `json:"start_date" validate:"required"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	FlowIntensity string     `json:"flow_intensity" validate:"omitempty,oneof=light medium heavy"`
	Notes         string     `json:"notes" validate:"max=500"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SymptomSummary aggregates symptom entries over a window.
type SymptomSummary struct {
	WindowDays    int                `json:"window_days"`
	TotalEntries  int                `json:"total_entries"`
	ByType        map[string]int     `json:"by_type"`
	AvgIntensity  map[string]float64 `json:"avg_intensity"`
	MostFrequent  string             `json:"most_frequent,omitempty"`
	FirstRecorded *time.Time         `json:"first_recorded,omitempty"`
	LastRecorded  *time.Time         `json:"last_recorded,omitempty"`
}

// CycleSummary aggregates completed cycles.
type CycleSummary struct {
	TotalCycles    int     `json:"total_cycles"`
	CompleteCycles int     `json:"complete_cycles"`
	AvgLengthDays  float64 `json:"avg_length_days"`
	MinLengthDays  int     `json:"min_length_days"`
	MaxLengthDays  int     `json:"max_length_days"`

	// "regular" when completed cycle lengths stay within a 7 day spread,
	// "irregular" otherwise, "insufficient_data" below two complete cycles
	Regularity string `json:"regularity"`
}
