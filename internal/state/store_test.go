package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/academy-tools/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "nested", "state.json"), zap.NewNop())
}

func TestStore_LoadMissingFile(t *testing.T) {
	st, err := newTestStore(t).Load()
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, st.Version)
	assert.Len(t, st.Notepad.Folders, 1)
	assert.Empty(t, st.Calculator.StartDate)
}

func TestStore_RoundTrip(t *testing.T) {
	fixClock(t)
	store := newTestStore(t)

	b := schedule.WeekPattern{false, true, false, true, false, false, false}
	st := Default()
	st.Calculator.SetRequest(schedule.Request{
		StartDate:         time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		TotalHours:        600,
		DefaultDailyHours: 8,
		WeekPatternA:      schedule.WeekPattern{false, true, false, true, false, true, false},
		WeekPatternB:      &b,
		Overrides:         schedule.Overrides{"2024-03-05": {IsTraining: true, Hours: 4, Memo: "보강"}},
	})
	st.Notepad, _ = st.Notepad.AddFolder("업무")

	require.NoError(t, store.Save(st))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, st.Calculator, loaded.Calculator)
	assert.Len(t, loaded.Notepad.Folders, 2)

	req, err := loaded.Calculator.Request()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), req.StartDate)
	require.NotNil(t, req.WeekPatternB)
	assert.Equal(t, b, *req.WeekPatternB)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Update(func(st *State) error {
		st.Calculator.TotalHours = 120
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, st.Calculator.TotalHours)

	boom := errors.New("boom")
	_, err = store.Update(func(st *State) error {
		st.Calculator.TotalHours = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 120.0, loaded.Calculator.TotalHours, "failed update must not be saved")
}

func TestStore_LoadCorrupt(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestStore_LoadFutureVersion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"version": 99}`), 0644))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestCalculator_RequestInvalidDate(t *testing.T) {
	_, err := Calculator{StartDate: "next monday"}.Request()
	assert.Error(t, err)

	req, err := Calculator{}.Request()
	require.NoError(t, err)
	assert.True(t, req.StartDate.IsZero())
}

func TestCalculator_ResolveRequest(t *testing.T) {
	def := Defaults{TotalHours: 600, DailyHours: 8, Preset: "mon-fri"}

	t.Run("fills unset inputs", func(t *testing.T) {
		req, err := Calculator{StartDate: "2024-03-04"}.ResolveRequest(def)
		require.NoError(t, err)

		monFri, _ := schedule.LookupPreset("mon-fri")
		assert.Equal(t, 600.0, req.TotalHours)
		assert.Equal(t, 8.0, req.DefaultDailyHours)
		assert.Equal(t, monFri.A, req.WeekPatternA)
		assert.Nil(t, req.WeekPatternB)
	})

	t.Run("stored preset wins", func(t *testing.T) {
		req, err := Calculator{Preset: "mwf-mw"}.ResolveRequest(def)
		require.NoError(t, err)

		mwfMw, _ := schedule.LookupPreset("mwf-mw")
		assert.Equal(t, mwfMw.A, req.WeekPatternA)
		require.NotNil(t, req.WeekPatternB)
		assert.Equal(t, *mwfMw.B, *req.WeekPatternB)
	})

	t.Run("stored values kept", func(t *testing.T) {
		var sat schedule.WeekPattern
		sat[time.Saturday] = true
		req, err := Calculator{TotalHours: 20, DefaultDailyHours: 4, WeekPatternA: sat}.ResolveRequest(def)
		require.NoError(t, err)
		assert.Equal(t, 20.0, req.TotalHours)
		assert.Equal(t, 4.0, req.DefaultDailyHours)
		assert.Equal(t, sat, req.WeekPatternA)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := Calculator{}.ResolveRequest(Defaults{Preset: "daily"})
		assert.Error(t, err)
	})
}

func TestCalculator_RequestRejectsNegativeOverride(t *testing.T) {
	c := Calculator{
		StartDate: "2024-03-04",
		Overrides: schedule.Overrides{"2024-03-04": {IsTraining: true, Hours: -3}},
	}

	_, err := c.Request()
	assert.ErrorIs(t, err, schedule.ErrNegativeHours)
	_, err = c.ResolveRequest(Defaults{TotalHours: 8, DailyHours: 8, Preset: "mon-fri"})
	assert.ErrorIs(t, err, schedule.ErrNegativeHours)
}
