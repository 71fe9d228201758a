package store

import "time"

type CardioLog struct {
	ID          string
	Kind        string // run, walk, ride, row, swim, other
	StartedAt   time.Time
	DistanceKm  float64
	DurationSec float64
	Notes       string
	CreatedAt   time.Time
}

type Goal struct {
	ID        string
	Type      string
	Target    float64
	Progress  float64
	Day       time.Time // local midnight
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counters are the day's externally tracked totals.
type Counters struct {
	Exercises int
	Intervals int
	Calories  float64
}

const (
	CounterExercises = "exercises"
	CounterIntervals = "intervals"
	CounterCalories  = "calories"
)

type Preset struct {
	ID     int64
	Name   string
	Kind   string // interval, breath
	Work   int    // seconds
	Rest   int
	Inhale int
	Hold1  int
	Exhale int
	Hold2  int
	Cycles int

	CreatedAt time.Time
}

type TimerSession struct {
	ID              int64
	Kind            string
	PlannedSec      int64
	Cycles          int
	CompletedCycles int
	Status          string // running, completed, cancelled
	StartedAt       time.Time
	CompletedAt     *time.Time
}

type Setting struct {
	Key   string
	Value string
}

// CardioFilter is used to filter cardio logs in queries.
type CardioFilter struct {
	Kind  string
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailyDistance aggregates cardio logs per local calendar day.
type DailyDistance struct {
	Day         time.Time
	DistanceKm  float64
	DurationSec float64
	Count       int
}
