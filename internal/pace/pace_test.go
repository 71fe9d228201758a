package pace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilesRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 0.001, 1, 5, 21.0975, 42.195, 1000, -3} {
		assert.InDelta(t, x, KmToMiles(MilesToKm(x)), 1e-9)
		assert.InDelta(t, x, MilesToKm(KmToMiles(x)), 1e-9)
	}
	assert.InDelta(t, 3.10685596, KmToMiles(5), 1e-8)
}

func TestSecondsPerKm(t *testing.T) {
	tests := []struct {
		km, sec float64
		want    float64
	}{
		{5, 1500, 300},
		{10, 3000, 300},
		{0, 1500, 0},
		{5, 0, 0},
		{-1, 100, 0},
		{math.NaN(), 100, 0},
		{5, math.Inf(1), 0},
	}
	for _, tt := range tests {
		got := SecondsPerKm(tt.km, tt.sec)
		if got != tt.want {
			t.Errorf("SecondsPerKm(%v, %v) = %v, want %v", tt.km, tt.sec, got, tt.want)
		}
	}
}

func TestKmPerHour(t *testing.T) {
	assert.InDelta(t, 12.0, KmPerHour(5, 1500), 1e-9)
	assert.Equal(t, 0.0, KmPerHour(5, 0))
	assert.Equal(t, 0.0, KmPerHour(5, -10))
	assert.Equal(t, 0.0, KmPerHour(0, 600))
}

func TestPaceSpeedInverse(t *testing.T) {
	for _, tt := range []struct{ km, sec float64 }{{5, 1500}, {0.4, 95}, {42.195, 10800}, {1.5, 7}} {
		p := SecondsPerKm(tt.km, tt.sec)
		want := tt.km / (p * tt.km / 3600)
		assert.InDelta(t, want, KmPerHour(tt.km, tt.sec), 1e-9)
	}
}

func TestFormatPace(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{300, "5:00 /km"},
		{330.4, "5:30 /km"},
		{59.6, "1:00 /km"},
		{65, "1:05 /km"},
		{0, "--:-- /km"},
		{-20, "--:-- /km"},
		{math.NaN(), "--:-- /km"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPace(tt.in))
	}
}

func TestFormatSpeed(t *testing.T) {
	assert.Equal(t, "12.0 km/h", FormatSpeed(12))
	assert.Equal(t, "9.7 km/h", FormatSpeed(9.66))
	assert.Equal(t, "-- km/h", FormatSpeed(0))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "8:03 /mi", FormatPaceUnit(300, Miles))
	assert.Equal(t, "--:-- /mi", FormatPaceUnit(0, Miles))
	assert.Equal(t, "6.2 mph", FormatSpeedUnit(10, Miles))
	assert.Equal(t, "-- mph", FormatSpeedUnit(0, Miles))
	assert.Equal(t, "3.11 mi", FormatDistance(5, Miles))
	assert.Equal(t, "5.00 km", FormatDistance(5, Kilometers))
	assert.Equal(t, "0.00 km", FormatDistance(-1, Kilometers))
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, Miles, ParseUnit("mi"))
	assert.Equal(t, Miles, ParseUnit("imperial"))
	assert.Equal(t, Kilometers, ParseUnit("km"))
	assert.Equal(t, Kilometers, ParseUnit(""))
}
