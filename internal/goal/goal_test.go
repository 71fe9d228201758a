package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 5, 12, 9, 30, 0, 0, time.Local)

func sampleLogs() []CardioLog {
	return []CardioLog{
		{Date: day.Add(-2 * time.Hour), DistanceKm: 3.0, DurationSec: 900},
		{Date: day.Add(10 * time.Hour), DistanceKm: 2.5, DurationSec: 800},
		{Date: day.AddDate(0, 0, -1), DistanceKm: 10, DurationSec: 3600},
	}
}

func TestProgressValue(t *testing.T) {
	in := Inputs{
		CardioLogs:         sampleLogs(),
		CompletedExercises: 4,
		CompletedIntervals: 12,
		ManualCalories:     350.5,
	}
	tests := []struct {
		typ  Type
		want float64
	}{
		{TypeDistance, 5.5},
		{TypeDuration, 1700},
		{TypeExercises, 4},
		{TypeCalories, 350.5},
		{TypeIntervals, 12},
		{Type("steps"), 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got := ProgressValue(Goal{Type: tt.typ, Target: 1, Date: day}, in)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestProgressClampsNegativeInputs(t *testing.T) {
	in := Inputs{
		CardioLogs:         []CardioLog{{Date: day, DistanceKm: -4, DurationSec: -60}, {Date: day, DistanceKm: 1}},
		CompletedExercises: -2,
		CompletedIntervals: -1,
		ManualCalories:     -100,
	}
	assert.Equal(t, 1.0, ProgressValue(Goal{Type: TypeDistance, Date: day}, in))
	assert.Equal(t, 0.0, ProgressValue(Goal{Type: TypeDuration, Date: day}, in))
	assert.Equal(t, 0.0, ProgressValue(Goal{Type: TypeExercises, Date: day}, in))
	assert.Equal(t, 0.0, ProgressValue(Goal{Type: TypeIntervals, Date: day}, in))
	assert.Equal(t, 0.0, ProgressValue(Goal{Type: TypeCalories, Date: day}, in))
}

func TestUpdatedDoesNotMutate(t *testing.T) {
	g := Goal{ID: "g1", Type: TypeDistance, Target: 5, Progress: 1, Date: day}
	u := Updated(g, Inputs{CardioLogs: sampleLogs()})

	assert.Equal(t, 1.0, g.Progress)
	assert.InDelta(t, 5.5, u.Progress, 1e-9)
	assert.Equal(t, "g1", u.ID)
	assert.True(t, Met(u))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name             string
		target, progress float64
		want             float64
	}{
		{"half", 10, 5, 0.5},
		{"capped", 10, 25, 1},
		{"zero target", 0, 50, 0},
		{"negative target", -5, 5, 0},
		{"negative progress", 10, -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(Goal{Target: tt.target, Progress: tt.progress}))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(day)
	assert.Equal(t, time.Date(2026, 5, 12, 0, 0, 0, 0, time.Local), got)
	assert.True(t, SameDay(day, day.Add(14*time.Hour)))
	assert.False(t, SameDay(day, day.Add(15*time.Hour)))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("calories")
	require.NoError(t, err)
	assert.Equal(t, TypeCalories, typ)
	assert.Equal(t, "kcal", typ.Unit())

	_, err = ParseType("steps")
	assert.Error(t, err)
}
