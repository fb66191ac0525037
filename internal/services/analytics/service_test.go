package analytics

import (
	"testing"
	"time"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/lunahealth/luna/internal/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalytics(t *testing.T) (*Service, interfaces.TrackingStorage) {
	t.Helper()
	logger := common.GetLogger()
	db, err := badger.NewBadgerDB(logger, &common.BadgerConfig{
		Path: t.TempDir() + "/analytics.db",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storage := badger.NewTrackingStorage(db, logger)
	return NewService(storage, logger), storage
}

// daysAgo returns noon local time n days in the past, keeping same-day
// entries on one calendar date
func daysAgo(n int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.Local).AddDate(0, 0, -n)
}

func saveSymptom(t *testing.T, storage interfaces.TrackingStorage, symptomType string, intensity int, at time.Time) {
	t.Helper()
	require.NoError(t, storage.SaveSymptom(&models.SymptomEntry{
		ID:          common.NewSymptomID(),
		SymptomType: symptomType,
		Intensity:   intensity,
		Timestamp:   at,
		CreatedAt:   at,
	}))
}

func saveCycle(t *testing.T, storage interfaces.TrackingStorage, start time.Time) {
	t.Helper()
	require.NoError(t, storage.SaveCycle(&models.CycleEntry{
		ID:        common.NewCycleID(),
		StartDate: start,
		CreatedAt: start,
	}))
}

func TestCycleCorrelation_InsufficientData(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	report, err := svc.CycleCorrelation(3)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.NotEmpty(t, report.Message)
	assert.Equal(t, 3, report.PeriodMonths)
}

func TestCycleCorrelation_PhaseClassification(t *testing.T) {
	svc, storage := newTestAnalytics(t)

	// Two cycles 28 days apart; symptoms land in known phases of the first
	saveCycle(t, storage, daysAgo(40))
	saveCycle(t, storage, daysAgo(12))

	saveSymptom(t, storage, models.SymptomCramps, 8, daysAgo(38))   // day 2, early
	saveSymptom(t, storage, models.SymptomFatigue, 4, daysAgo(30))  // day 10, mid
	saveSymptom(t, storage, models.SymptomHeadache, 5, daysAgo(20)) // day 20, late
	saveSymptom(t, storage, models.SymptomAnxiety, 6, daysAgo(14))  // 2 days before next, pre-menstrual

	report, err := svc.CycleCorrelation(3)
	require.NoError(t, err)
	require.True(t, report.Success)

	assert.Equal(t, 4, report.SymptomsAnalyzed)
	assert.Equal(t, 2, report.CyclesAnalyzed)
	assert.Equal(t, map[string]int{
		models.PhaseEarly:        1,
		models.PhaseMid:          1,
		models.PhaseLate:         1,
		models.PhasePreMenstrual: 1,
	}, report.PhaseDistribution)

	assert.Equal(t, 8.0, report.IntensityByPhase[models.PhaseEarly][models.SymptomCramps])
	assert.Equal(t, 4.0, report.IntensityByPhase[models.PhaseMid][models.SymptomFatigue])

	require.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights[0], "most symptomatic")
	// Cramps at 8/10 is above the high intensity threshold
	assert.Contains(t, report.Insights[1], "high intensity")
}

func TestSymptomTrends_Directions(t *testing.T) {
	svc, storage := newTestAnalytics(t)

	for i, intensity := range []int{2, 4, 6, 8} {
		saveSymptom(t, storage, models.SymptomCramps, intensity, daysAgo(20-i*5))
	}
	for i := 0; i < 3; i++ {
		saveSymptom(t, storage, models.SymptomFatigue, 5, daysAgo(15-i*5))
	}
	// Two entries only: no trend computed
	saveSymptom(t, storage, models.SymptomAcne, 3, daysAgo(8))
	saveSymptom(t, storage, models.SymptomAcne, 3, daysAgo(4))

	report, err := svc.SymptomTrends("", 90)
	require.NoError(t, err)
	require.True(t, report.Success)
	assert.Equal(t, "all", report.SymptomType)
	assert.Equal(t, 9, report.TotalEntries)

	cramps, ok := report.Trends[models.SymptomCramps]
	require.True(t, ok)
	assert.Equal(t, "increasing", cramps.Trend)
	assert.Equal(t, 4, cramps.Count)
	assert.Equal(t, 5.0, cramps.AvgIntensity)
	assert.Equal(t, 2.0, cramps.Slope)

	fatigue, ok := report.Trends[models.SymptomFatigue]
	require.True(t, ok)
	assert.Equal(t, "stable", fatigue.Trend)

	_, ok = report.Trends[models.SymptomAcne]
	assert.False(t, ok, "fewer than 3 entries carries no trend")

	assert.Contains(t, report.Insights[0], "trending up")
}

func TestSymptomTrends_TypeFilter(t *testing.T) {
	svc, storage := newTestAnalytics(t)

	for i, intensity := range []int{7, 5, 3} {
		saveSymptom(t, storage, models.SymptomHeadache, intensity, daysAgo(12-i*4))
	}
	saveSymptom(t, storage, models.SymptomCramps, 9, daysAgo(6))

	report, err := svc.SymptomTrends(models.SymptomHeadache, 90)
	require.NoError(t, err)
	require.True(t, report.Success)
	assert.Equal(t, models.SymptomHeadache, report.SymptomType)
	assert.Equal(t, 3, report.TotalEntries)
	assert.Equal(t, "decreasing", report.Trends[models.SymptomHeadache].Trend)
}

func TestSymptomTrends_NoData(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	report, err := svc.SymptomTrends("", 90)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.NotEmpty(t, report.Message)
}

func TestRecurringPatterns_PhaseAndCombination(t *testing.T) {
	svc, storage := newTestAnalytics(t)

	saveCycle(t, storage, daysAgo(40))
	saveCycle(t, storage, daysAgo(12))

	// Cramps on day 2 of both cycles
	saveSymptom(t, storage, models.SymptomCramps, 7, daysAgo(38))
	saveSymptom(t, storage, models.SymptomCramps, 6, daysAgo(10))

	// Cramps+fatigue together on two separate days
	saveSymptom(t, storage, models.SymptomFatigue, 4, daysAgo(38))
	saveSymptom(t, storage, models.SymptomFatigue, 5, daysAgo(10))

	report, err := svc.RecurringPatterns(2)
	require.NoError(t, err)
	require.True(t, report.Success)
	require.NotEmpty(t, report.Patterns)
	assert.Equal(t, len(report.Patterns), report.PatternsFound)

	var phasePattern, comboPattern *models.RecurringPattern
	for i := range report.Patterns {
		p := &report.Patterns[i]
		if p.Type == "cycle_phase_recurrence" && p.Symptom == models.SymptomCramps {
			phasePattern = p
		}
		if p.Type == "symptom_combination" {
			comboPattern = p
		}
	}

	require.NotNil(t, phasePattern)
	assert.Equal(t, models.PhaseEarly, phasePattern.Phase)
	assert.Equal(t, 2, phasePattern.Occurrences)

	require.NotNil(t, comboPattern)
	assert.Equal(t, []string{models.SymptomCramps, models.SymptomFatigue}, comboPattern.Symptoms)
	assert.Equal(t, 2, comboPattern.Occurrences)

	assert.Len(t, report.Insights, report.PatternsFound)
}

func TestRecurringPatterns_BelowThreshold(t *testing.T) {
	svc, storage := newTestAnalytics(t)

	saveCycle(t, storage, daysAgo(20))
	saveSymptom(t, storage, models.SymptomCramps, 5, daysAgo(18))

	report, err := svc.RecurringPatterns(2)
	require.NoError(t, err)
	require.True(t, report.Success)
	assert.Zero(t, report.PatternsFound)
	assert.Contains(t, report.Insights[0], "No significant recurring pattern")
}

func TestRecurringPatterns_NoSymptoms(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	report, err := svc.RecurringPatterns(0)
	require.NoError(t, err)
	assert.False(t, report.Success)
	assert.Equal(t, 2, report.MinOccurrences)
}
