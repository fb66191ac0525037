package badger

import (
	"testing"
	"time"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingStorage_SymptomRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewTrackingStorage(db, common.GetLogger())

	now := time.Now()
	entries := []*models.SymptomEntry{
		{ID: "sym_1", SymptomType: models.SymptomCramps, Intensity: 7, Timestamp: now.Add(-48 * time.Hour)},
		{ID: "sym_2", SymptomType: models.SymptomFatigue, Intensity: 4, Timestamp: now.Add(-24 * time.Hour)},
		{ID: "sym_3", SymptomType: models.SymptomCramps, Intensity: 5, Timestamp: now},
	}
	for _, e := range entries {
		require.NoError(t, store.SaveSymptom(e))
	}

	all, err := store.ListSymptoms(interfaces.SymptomFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sym_3", all[0].ID, "newest first")

	cramps, err := store.ListSymptoms(interfaces.SymptomFilter{SymptomType: models.SymptomCramps})
	require.NoError(t, err)
	assert.Len(t, cramps, 2)

	recent, err := store.ListSymptoms(interfaces.SymptomFilter{Since: now.Add(-30 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := store.ListSymptoms(interfaces.SymptomFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "sym_3", limited[0].ID)
}

func TestTrackingStorage_DeleteSymptom(t *testing.T) {
	db := newTestDB(t)
	store := NewTrackingStorage(db, common.GetLogger())

	require.NoError(t, store.SaveSymptom(&models.SymptomEntry{
		ID: "sym_1", SymptomType: models.SymptomAcne, Intensity: 3, Timestamp: time.Now(),
	}))
	require.NoError(t, store.DeleteSymptom("sym_1"))

	err := store.DeleteSymptom("sym_1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestTrackingStorage_CycleRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewTrackingStorage(db, common.GetLogger())

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	require.NoError(t, store.SaveCycle(&models.CycleEntry{
		ID: "cyc_1", StartDate: start, EndDate: &end, FlowIntensity: "medium",
	}))
	require.NoError(t, store.SaveCycle(&models.CycleEntry{
		ID: "cyc_2", StartDate: start.AddDate(0, 0, 28),
	}))

	got, err := store.GetCycle("cyc_1")
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "medium", got.FlowIntensity)

	_, err = store.GetCycle("cyc_missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	cycles, err := store.ListCycles(0)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(t, "cyc_2", cycles[0].ID, "most recent start first")
}
