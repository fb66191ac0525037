package models

// Cycle phase labels used by the analytics service.
const (
	PhaseEarly        = "early"         // days 1-5, menstruation
	PhaseMid          = "mid"           // days 6-14, follicular/ovulation
	PhaseLate         = "late"          // day 15 onward, luteal
	PhasePreMenstrual = "pre_menstrual" // last 3 days before the next cycle
)

// CorrelationReport maps symptom activity onto cycle phases.
type CorrelationReport struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	PeriodMonths     int `json:"period_months"`
	SymptomsAnalyzed int `json:"total_symptoms_analyzed"`
	CyclesAnalyzed   int `json:"total_cycles_analyzed"`

	// PhaseDistribution counts symptom entries per cycle phase
	PhaseDistribution map[string]int `json:"phase_distribution,omitempty"`

	// IntensityByPhase averages intensity per symptom type within each phase
	IntensityByPhase map[string]map[string]float64 `json:"symptom_intensity_by_phase,omitempty"`

	Insights []string `json:"insights,omitempty"`
}

// SymptomTrend describes the intensity trajectory of one symptom type.
type SymptomTrend struct {
	Count        int     `json:"count"`
	AvgIntensity float64 `json:"avg_intensity"`
	Trend        string  `json:"trend"` // "increasing", "decreasing", "stable"
	Slope        float64 `json:"slope"`
}

// TrendReport summarizes symptom trajectories over a time window.
type TrendReport struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	PeriodDays   int    `json:"period_days"`
	SymptomType  string `json:"symptom_type"`
	TotalEntries int    `json:"total_entries"`

	Trends   map[string]SymptomTrend `json:"trends,omitempty"`
	Insights []string                `json:"insights,omitempty"`
}

// RecurringPattern is one detected repetition in the tracking history.
type RecurringPattern struct {
	// Type is "cycle_phase_recurrence" or "symptom_combination"
	Type string `json:"type"`

	// Symptom and Phase are set for phase recurrences
	Symptom string `json:"symptom,omitempty"`
	Phase   string `json:"phase,omitempty"`

	// Symptoms holds the co-occurring types for combinations
	Symptoms []string `json:"symptoms,omitempty"`

	Occurrences int    `json:"occurrences"`
	Description string `json:"description"`
}

// PatternReport lists recurring patterns found in the tracking history.
type PatternReport struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	MinOccurrences int                `json:"min_occurrences"`
	PatternsFound  int                `json:"patterns_found"`
	Patterns       []RecurringPattern `json:"patterns,omitempty"`
	Insights       []string           `json:"insights,omitempty"`
}
