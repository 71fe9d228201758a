// Package goal derives daily goal progress from activity inputs.
package goal

import (
	"fmt"
	"math"
	"time"
)

// Type is what a goal measures.
type Type string

const (
	TypeDuration  Type = "duration"
	TypeDistance  Type = "distance"
	TypeExercises Type = "exercises"
	TypeCalories  Type = "calories"
	TypeIntervals Type = "intervals"
)

// Types lists every goal type in display order.
var Types = []Type{TypeDuration, TypeDistance, TypeExercises, TypeCalories, TypeIntervals}

// ParseType validates a goal type name.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown goal type %q", s)
}

// Unit is the display unit of the goal's target and progress.
func (t Type) Unit() string {
	switch t {
	case TypeDuration:
		return "sec"
	case TypeDistance:
		return "km"
	case TypeCalories:
		return "kcal"
	}
	return ""
}

// Goal is a daily target.
type Goal struct {
	ID       string
	Type     Type
	Target   float64
	Progress float64
	Date     time.Time
}

// CardioLog is the part of a cardio log the calculator reads.
type CardioLog struct {
	Date        time.Time
	DistanceKm  float64
	DurationSec float64
}

// Inputs are the day's aggregates. The counters are tracked by the caller.
type Inputs struct {
	CardioLogs         []CardioLog
	CompletedExercises int
	CompletedIntervals int
	ManualCalories     float64
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// ProgressValue computes the goal's progress from in.
func ProgressValue(g Goal, in Inputs) float64 {
	switch g.Type {
	case TypeDuration:
		var total float64
		for _, l := range logsOn(g.Date, in.CardioLogs) {
			total += nonNegative(l.DurationSec)
		}
		return total
	case TypeDistance:
		var total float64
		for _, l := range logsOn(g.Date, in.CardioLogs) {
			total += nonNegative(l.DistanceKm)
		}
		return total
	case TypeExercises:
		return nonNegative(float64(in.CompletedExercises))
	case TypeCalories:
		return nonNegative(in.ManualCalories)
	case TypeIntervals:
		return nonNegative(float64(in.CompletedIntervals))
	}
	return 0
}

// Updated returns a copy of g with Progress recomputed.
func Updated(g Goal, in Inputs) Goal {
	g.Progress = ProgressValue(g, in)
	return g
}

// Percent is progress/target capped at 1, or 0 when the target is not
// positive.
func Percent(g Goal) float64 {
	if !(g.Target > 0) || math.IsInf(g.Target, 0) {
		return 0
	}
	p := nonNegative(g.Progress) / g.Target
	if p > 1 {
		return 1
	}
	return p
}

// Met reports whether the goal has reached its target.
func Met(g Goal) bool {
	return g.Target > 0 && Percent(g) >= 1
}

func logsOn(day time.Time, logs []CardioLog) []CardioLog {
	var out []CardioLog
	for _, l := range logs {
		if SameDay(day, l.Date) {
			out = append(out, l)
		}
	}
	return out
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 || math.IsInf(v, 0) {
		return 0
	}
	return v
}
