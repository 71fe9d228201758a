// Package pace converts distance and duration into pace and speed.
//
// Zero is the "not computable" value throughout: a zero pace or speed means
// the inputs could not produce one, and the formatters render a placeholder.
package pace

import (
	"fmt"
	"math"
)

const milesPerKm = 0.621371192

// Unit is the distance unit used for display.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// ParseUnit maps config spellings onto a Unit, defaulting to kilometers.
func ParseUnit(s string) Unit {
	switch s {
	case "mi", "mile", "miles", "imperial":
		return Miles
	}
	return Kilometers
}

func KmToMiles(km float64) float64 { return km * milesPerKm }

func MilesToKm(mi float64) float64 { return mi / milesPerKm }

// SecondsPerKm returns durationSec/distanceKm, or 0 unless both are positive.
func SecondsPerKm(distanceKm, durationSec float64) float64 {
	if !positive(distanceKm) || !positive(durationSec) {
		return 0
	}
	return durationSec / distanceKm
}

// KmPerHour returns the average speed, or 0 when durationSec is not positive.
func KmPerHour(distanceKm, durationSec float64) float64 {
	if !positive(durationSec) || !finite(distanceKm) {
		return 0
	}
	return distanceKm / (durationSec / 3600)
}

// FormatPace renders seconds per km as "M:SS /km".
func FormatPace(secPerKm float64) string {
	return FormatPaceUnit(secPerKm, Kilometers)
}

// FormatSpeed renders km/h with one decimal.
func FormatSpeed(kmh float64) string {
	return FormatSpeedUnit(kmh, Kilometers)
}

// FormatPaceUnit renders a km-based pace in the given unit.
func FormatPaceUnit(secPerKm float64, u Unit) string {
	label := "/km"
	if u == Miles {
		label = "/mi"
	}
	if !positive(secPerKm) {
		return "--:-- " + label
	}
	secs := secPerKm
	if u == Miles {
		secs = secPerKm / milesPerKm
	}
	total := int(math.Round(secs))
	return fmt.Sprintf("%d:%02d %s", total/60, total%60, label)
}

// FormatSpeedUnit renders a km/h speed in the given unit.
func FormatSpeedUnit(kmh float64, u Unit) string {
	label := "km/h"
	if u == Miles {
		label = "mph"
	}
	if !positive(kmh) {
		return "-- " + label
	}
	if u == Miles {
		kmh = KmToMiles(kmh)
	}
	return fmt.Sprintf("%.1f %s", kmh, label)
}

// FormatDistance renders a km distance in the given unit with two decimals.
func FormatDistance(km float64, u Unit) string {
	if !finite(km) || km < 0 {
		km = 0
	}
	if u == Miles {
		return fmt.Sprintf("%.2f mi", KmToMiles(km))
	}
	return fmt.Sprintf("%.2f km", km)
}

func positive(v float64) bool { return finite(v) && v > 0 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
