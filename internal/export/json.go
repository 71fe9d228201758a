package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Unit       string      `json:"unit"`
	Count      int         `json:"count"`
	TotalKm    float64     `json:"total_km"`
	Logs       []jsonEntry `json:"logs"`
}

type jsonEntry struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	StartTime   string  `json:"start_time"`
	DistanceKm  float64 `json:"distance_km"`
	Distance    float64 `json:"distance"`
	DurationSec float64 `json:"duration_seconds"`
	Duration    string  `json:"duration"`
	Pace        string  `json:"pace"`
	Speed       string  `json:"speed"`
	Notes       string  `json:"notes,omitempty"`
}

func ToJSON(logs []store.CardioLog, u pace.Unit, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	return WriteJSON(f, logs, u)
}

// WriteJSON writes an indented document holding every cardio log.
func WriteJSON(w io.Writer, logs []store.CardioLog, u pace.Unit) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Unit:       string(u),
		Count:      len(logs),
	}

	for _, l := range logs {
		export.TotalKm += l.DistanceKm
		export.Logs = append(export.Logs, jsonEntry{
			ID:          l.ID,
			Kind:        l.Kind,
			StartTime:   l.StartedAt.Local().Format(time.RFC3339),
			DistanceKm:  l.DistanceKm,
			Distance:    distanceIn(l.DistanceKm, u),
			DurationSec: l.DurationSec,
			Duration:    formatDuration(int64(l.DurationSec)),
			Pace:        pace.FormatPaceUnit(pace.SecondsPerKm(l.DistanceKm, l.DurationSec), u),
			Speed:       pace.FormatSpeedUnit(pace.KmPerHour(l.DistanceKm, l.DurationSec), u),
			Notes:       l.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
