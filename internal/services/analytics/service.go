package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

const (
	defaultCorrelationMonths = 3
	defaultTrendDays         = 90
	defaultMinOccurrences    = 2
	patternWindowDays        = 180

	// Slopes inside (-0.1, 0.1) count as stable
	trendSlopeThreshold = 0.1

	// Average intensity at or above this is called out in insights
	highIntensityThreshold = 7.0
)

// phaseNames spells out phase labels for insight text
var phaseNames = map[string]string{
	models.PhaseEarly:        "menstruation (days 1-5)",
	models.PhaseMid:          "follicular/ovulation (days 6-14)",
	models.PhaseLate:         "luteal (day 15 onward)",
	models.PhasePreMenstrual: "pre-menstrual (last 3 days)",
}

// Service derives correlations, trends and recurring patterns from the
// tracking history. Read-only over the tracking store.
type Service struct {
	storage interfaces.TrackingStorage
	logger  arbor.ILogger
}

// NewService creates the analytics service
func NewService(storage interfaces.TrackingStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CycleCorrelation maps symptom entries onto cycle phases over the last
// `months` months and reports per-phase counts and average intensities.
func (s *Service) CycleCorrelation(months int) (*models.CorrelationReport, error) {
	if months <= 0 {
		months = defaultCorrelationMonths
	}
	since := time.Now().AddDate(0, 0, -months*30)

	symptoms, err := s.storage.ListSymptoms(interfaces.SymptomFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}
	cycles, err := s.cyclesSince(since)
	if err != nil {
		return nil, err
	}

	report := &models.CorrelationReport{
		PeriodMonths:     months,
		SymptomsAnalyzed: len(symptoms),
		CyclesAnalyzed:   len(cycles),
	}
	if len(symptoms) == 0 || len(cycles) == 0 {
		report.Message = "Not enough data for correlation analysis. Log more symptoms and cycles."
		return report, nil
	}

	starts := cycleStarts(cycles)
	distribution := make(map[string]int)
	intensities := make(map[string]map[string][]int)

	for _, symptom := range symptoms {
		phase := determinePhase(symptom.Timestamp, starts)
		if phase == "" {
			continue
		}
		distribution[phase]++
		if intensities[phase] == nil {
			intensities[phase] = make(map[string][]int)
		}
		intensities[phase][symptom.SymptomType] = append(intensities[phase][symptom.SymptomType], symptom.Intensity)
	}

	report.PhaseDistribution = distribution
	report.IntensityByPhase = make(map[string]map[string]float64, len(intensities))
	for phase, byType := range intensities {
		report.IntensityByPhase[phase] = make(map[string]float64, len(byType))
		for symptomType, values := range byType {
			report.IntensityByPhase[phase][symptomType] = round1(average(values))
		}
	}

	report.Success = true
	report.Insights = correlationInsights(report)

	s.logger.Debug().
		Int("symptoms", len(symptoms)).
		Int("cycles", len(cycles)).
		Msg("Cycle correlation analysis complete")
	return report, nil
}

// SymptomTrends fits a linear trend per symptom type over the last `days`
// days. Types with fewer than 3 entries carry no trend.
func (s *Service) SymptomTrends(symptomType string, days int) (*models.TrendReport, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	since := time.Now().AddDate(0, 0, -days)

	symptoms, err := s.storage.ListSymptoms(interfaces.SymptomFilter{
		SymptomType: symptomType,
		Since:       since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}

	reportType := symptomType
	if reportType == "" {
		reportType = "all"
	}
	report := &models.TrendReport{
		PeriodDays:   days,
		SymptomType:  reportType,
		TotalEntries: len(symptoms),
	}
	if len(symptoms) == 0 {
		report.Message = "No symptoms found for trend analysis."
		return report, nil
	}

	byType := make(map[string][]*models.SymptomEntry)
	for _, symptom := range symptoms {
		byType[symptom.SymptomType] = append(byType[symptom.SymptomType], symptom)
	}

	report.Trends = make(map[string]models.SymptomTrend)
	for name, entries := range byType {
		if len(entries) < 3 {
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		})

		values := make([]int, len(entries))
		for i, entry := range entries {
			values[i] = entry.Intensity
		}
		slope := linearSlope(values)

		trend := "stable"
		if slope > trendSlopeThreshold {
			trend = "increasing"
		} else if slope < -trendSlopeThreshold {
			trend = "decreasing"
		}

		report.Trends[name] = models.SymptomTrend{
			Count:        len(entries),
			AvgIntensity: round1(average(values)),
			Trend:        trend,
			Slope:        round2(slope),
		}
	}

	report.Success = true
	report.Insights = trendInsights(report.Trends)
	return report, nil
}

// RecurringPatterns finds repetitions over the last 6 months: symptom
// types recurring in the same cycle phase, and symptom combinations
// logged on the same day.
func (s *Service) RecurringPatterns(minOccurrences int) (*models.PatternReport, error) {
	if minOccurrences <= 0 {
		minOccurrences = defaultMinOccurrences
	}
	since := time.Now().AddDate(0, 0, -patternWindowDays)

	symptoms, err := s.storage.ListSymptoms(interfaces.SymptomFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("failed to load symptoms: %w", err)
	}
	cycles, err := s.cyclesSince(since)
	if err != nil {
		return nil, err
	}

	report := &models.PatternReport{MinOccurrences: minOccurrences}
	if len(symptoms) == 0 {
		report.Message = "Not enough data to identify patterns."
		return report, nil
	}

	var patterns []models.RecurringPattern
	patterns = append(patterns, phaseRecurrences(symptoms, cycles, minOccurrences)...)
	patterns = append(patterns, symptomCombinations(symptoms, minOccurrences)...)

	report.Success = true
	report.PatternsFound = len(patterns)
	report.Patterns = patterns
	report.Insights = patternInsights(patterns)
	return report, nil
}

// cyclesSince lists cycles starting inside the analysis window,
// oldest capped at 12 like the summaries.
func (s *Service) cyclesSince(since time.Time) ([]*models.CycleEntry, error) {
	cycles, err := s.storage.ListCycles(12)
	if err != nil {
		return nil, fmt.Errorf("failed to load cycles: %w", err)
	}
	kept := cycles[:0]
	for _, cycle := range cycles {
		if !cycle.StartDate.Before(since) {
			kept = append(kept, cycle)
		}
	}
	return kept, nil
}

// cycleStarts returns cycle start dates in ascending order
func cycleStarts(cycles []*models.CycleEntry) []time.Time {
	starts := make([]time.Time, len(cycles))
	for i, cycle := range cycles {
		starts[i] = cycle.StartDate
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}

// determinePhase classifies a date against cycle start dates:
// days 0-5 early, 6-14 mid, then late, except the last 3 days before a
// known next cycle which are pre-menstrual. Dates before the first
// recorded cycle are unclassified.
func determinePhase(date time.Time, starts []time.Time) string {
	for i := len(starts) - 1; i >= 0; i-- {
		if date.Before(starts[i]) {
			continue
		}

		var next *time.Time
		if i+1 < len(starts) {
			next = &starts[i+1]
		}
		if next != nil && !date.Before(*next) {
			return ""
		}

		daysFromStart := int(date.Sub(starts[i]).Hours() / 24)
		switch {
		case daysFromStart <= 5:
			return models.PhaseEarly
		case daysFromStart <= 14:
			return models.PhaseMid
		default:
			if next != nil {
				daysToNext := int(next.Sub(date).Hours() / 24)
				if daysToNext <= 3 {
					return models.PhasePreMenstrual
				}
			}
			return models.PhaseLate
		}
	}
	return ""
}

// phaseRecurrences counts (symptom type, phase) repetitions
func phaseRecurrences(symptoms []*models.SymptomEntry, cycles []*models.CycleEntry, minOccurrences int) []models.RecurringPattern {
	if len(cycles) == 0 {
		return nil
	}
	starts := cycleStarts(cycles)

	counts := make(map[string]map[string]int)
	for _, symptom := range symptoms {
		phase := determinePhase(symptom.Timestamp, starts)
		if phase == "" {
			continue
		}
		if counts[symptom.SymptomType] == nil {
			counts[symptom.SymptomType] = make(map[string]int)
		}
		counts[symptom.SymptomType][phase]++
	}

	var patterns []models.RecurringPattern
	for symptomType, phases := range counts {
		for phase, count := range phases {
			if count < minOccurrences {
				continue
			}
			patterns = append(patterns, models.RecurringPattern{
				Type:        "cycle_phase_recurrence",
				Symptom:     symptomType,
				Phase:       phase,
				Occurrences: count,
				Description: fmt.Sprintf("%s recurs %d times in the %s phase", symptomType, count, phase),
			})
		}
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Symptom != patterns[j].Symptom {
			return patterns[i].Symptom < patterns[j].Symptom
		}
		return patterns[i].Phase < patterns[j].Phase
	})
	return patterns
}

// symptomCombinations counts sets of distinct symptom types logged on
// the same calendar day
func symptomCombinations(symptoms []*models.SymptomEntry, minOccurrences int) []models.RecurringPattern {
	byDay := make(map[string]map[string]bool)
	for _, symptom := range symptoms {
		day := symptom.Timestamp.Format("2006-01-02")
		if byDay[day] == nil {
			byDay[day] = make(map[string]bool)
		}
		byDay[day][symptom.SymptomType] = true
	}

	comboCounts := make(map[string]int)
	for _, types := range byDay {
		if len(types) < 2 {
			continue
		}
		combo := make([]string, 0, len(types))
		for name := range types {
			combo = append(combo, name)
		}
		sort.Strings(combo)
		comboCounts[strings.Join(combo, "+")]++
	}

	var patterns []models.RecurringPattern
	for combo, count := range comboCounts {
		if count < minOccurrences {
			continue
		}
		types := strings.Split(combo, "+")
		patterns = append(patterns, models.RecurringPattern{
			Type:        "symptom_combination",
			Symptoms:    types,
			Occurrences: count,
			Description: fmt.Sprintf("combination %s repeats %d times", strings.Join(types, ", "), count),
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		return strings.Join(patterns[i].Symptoms, "+") < strings.Join(patterns[j].Symptoms, "+")
	})
	return patterns
}

func correlationInsights(report *models.CorrelationReport) []string {
	var insights []string

	if len(report.PhaseDistribution) == 0 {
		return []string{"Not enough classified symptoms to identify cycle correlations."}
	}

	maxPhase := ""
	for phase, count := range report.PhaseDistribution {
		if maxPhase == "" || count > report.PhaseDistribution[maxPhase] ||
			(count == report.PhaseDistribution[maxPhase] && phase < maxPhase) {
			maxPhase = phase
		}
	}
	insights = append(insights, fmt.Sprintf(
		"The most symptomatic cycle phase is %s with %d entries",
		phaseNames[maxPhase], report.PhaseDistribution[maxPhase]))

	phases := make([]string, 0, len(report.IntensityByPhase))
	for phase := range report.IntensityByPhase {
		phases = append(phases, phase)
	}
	sort.Strings(phases)
	for _, phase := range phases {
		byType := report.IntensityByPhase[phase]
		types := make([]string, 0, len(byType))
		for name := range byType {
			types = append(types, name)
		}
		sort.Strings(types)
		for _, name := range types {
			if byType[name] >= highIntensityThreshold {
				insights = append(insights, fmt.Sprintf(
					"%s averages high intensity (%.1f/10) during the %s phase",
					name, byType[name], phaseNames[phase]))
			}
		}
	}
	return insights
}

func trendInsights(trends map[string]models.SymptomTrend) []string {
	if len(trends) == 0 {
		return []string{"No significant trend identified."}
	}

	names := make([]string, 0, len(trends))
	for name := range trends {
		names = append(names, name)
	}
	sort.Strings(names)

	var insights []string
	for _, name := range names {
		trend := trends[name]
		switch trend.Trend {
		case "increasing":
			insights = append(insights, fmt.Sprintf("%s is trending up (average intensity %.1f/10)", name, trend.AvgIntensity))
		case "decreasing":
			insights = append(insights, fmt.Sprintf("%s is trending down (average intensity %.1f/10)", name, trend.AvgIntensity))
		default:
			insights = append(insights, fmt.Sprintf("%s is stable (average intensity %.1f/10)", name, trend.AvgIntensity))
		}
	}
	return insights
}

func patternInsights(patterns []models.RecurringPattern) []string {
	if len(patterns) == 0 {
		return []string{"No significant recurring pattern identified."}
	}
	insights := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		insights = append(insights, "Pattern identified: "+pattern.Description)
	}
	return insights
}

// linearSlope is the least-squares slope of values over their indices
func linearSlope(values []int) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		y := float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
