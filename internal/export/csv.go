package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

var csvHeader = []string{"ID", "Kind", "Start", "Distance", "Unit", "Duration (s)", "Duration", "Pace", "Speed", "Notes"}

func ToCSV(logs []store.CardioLog, u pace.Unit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, logs, u)
}

// WriteCSV writes one row per cardio log, distances converted to u.
func WriteCSV(out io.Writer, logs []store.CardioLog, u pace.Unit) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range logs {
		row := []string{
			l.ID,
			l.Kind,
			l.StartedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%.2f", distanceIn(l.DistanceKm, u)),
			string(u),
			fmt.Sprintf("%.0f", l.DurationSec),
			formatDuration(int64(l.DurationSec)),
			pace.FormatPaceUnit(pace.SecondsPerKm(l.DistanceKm, l.DurationSec), u),
			pace.FormatSpeedUnit(pace.KmPerHour(l.DistanceKm, l.DurationSec), u),
			l.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func distanceIn(km float64, u pace.Unit) float64 {
	if u == pace.Miles {
		return pace.KmToMiles(km)
	}
	return km
}

func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
