package tui

import (
	"fmt"
	"time"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
)

// viewState represents the currently active view.
type viewState int

const (
	viewGoals viewState = iota
	viewInterval
	viewBreath
	viewCardio
	viewReports
	viewSettings
)

const viewCount = 6

var viewNames = []string{"Today", "Interval", "Breath", "Cardio", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type sessionRecordedMsg struct {
	kind   string
	cycles int
}

type cardioChangedMsg struct{}

type goalsChangedMsg struct{}

type settingsChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

type configChangedMsg struct {
	cfg config.Config
	err error
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs float64) string {
	return formatDuration(time.Duration(secs * float64(time.Second)))
}

// formatClock renders a countdown as MM:SS, rounding partial seconds up so
// the display only reaches 00:00 when the phase ends.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// parseClock reads "MM:SS", "H:MM:SS" or a Go duration like "25m".
func parseClock(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	var h, m, sec int
	if n, _ := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); n == 3 {
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	}
	if n, _ := fmt.Sscanf(s, "%d:%d", &m, &sec); n == 2 {
		return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}
