package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

func sampleLogs() []store.CardioLog {
	now := time.Now().UTC()
	return []store.CardioLog{
		{
			ID:          "a",
			Kind:        "run",
			StartedAt:   now.Add(-2 * time.Hour),
			DistanceKm:  5,
			DurationSec: 1500,
			Notes:       "easy run",
			CreatedAt:   now,
		},
		{
			ID:          "b",
			Kind:        "ride",
			StartedAt:   now.Add(-1 * time.Hour),
			DistanceKm:  20,
			DurationSec: 3600,
			CreatedAt:   now,
		},
		{
			ID:          "c",
			Kind:        "walk",
			StartedAt:   now.Add(-10 * time.Minute),
			DistanceKm:  0, // no distance recorded
			DurationSec: 600,
			CreatedAt:   now,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleLogs(), pace.Kilometers, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	header := records[0]
	for i, want := range csvHeader {
		if header[i] != want {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], want)
		}
	}

	run := records[1]
	if run[0] != "a" || run[1] != "run" {
		t.Fatalf("unexpected first row: %v", run)
	}
	if run[3] != "5.00" || run[4] != "km" {
		t.Fatalf("distance = %q %q, want 5.00 km", run[3], run[4])
	}
	if run[5] != "1500" || run[6] != "00:25:00" {
		t.Fatalf("duration = %q / %q", run[5], run[6])
	}
	if run[7] != "5:00 /km" {
		t.Fatalf("pace = %q, want 5:00 /km", run[7])
	}
	if run[8] != "12.0 km/h" {
		t.Fatalf("speed = %q, want 12.0 km/h", run[8])
	}
	if run[9] != "easy run" {
		t.Fatalf("notes = %q", run[9])
	}

	// No distance: placeholders instead of a division by zero
	walk := records[3]
	if walk[7] != "--:-- /km" || walk[8] != "-- km/h" {
		t.Fatalf("expected placeholders, got %q %q", walk[7], walk[8])
	}
}

func TestToCSVMiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miles.csv")
	if err := ToCSV(sampleLogs()[:1], pace.Miles, path); err != nil {
		t.Fatal(err)
	}
	row := readCSV(t, path)[1]
	if row[3] != "3.11" || row[4] != "mi" {
		t.Fatalf("distance = %q %q, want 3.11 mi", row[3], row[4])
	}
	if row[7] != "8:03 /mi" {
		t.Fatalf("pace = %q, want 8:03 /mi", row[7])
	}
	if row[8] != "7.5 mph" {
		t.Fatalf("speed = %q, want 7.5 mph", row[8])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, pace.Kilometers, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, pace.Kilometers, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestWriteCSVSpecialCharacters(t *testing.T) {
	logs := []store.CardioLog{
		{ID: "x", Kind: "run", StartedAt: time.Now(), DistanceKm: 1, DurationSec: 300, Notes: `notes with "quotes" and, commas`},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, logs, pace.Kilometers); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][9] != `notes with "quotes" and, commas` {
		t.Fatalf("notes mangled: %q", records[1][9])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleLogs(), pace.Kilometers, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Logs) != 3 {
		t.Fatalf("count = %d, logs = %d, want 3", result.Count, len(result.Logs))
	}
	if result.TotalKm != 25 {
		t.Fatalf("total_km = %v, want 25", result.TotalKm)
	}
	if result.Unit != "km" {
		t.Fatalf("unit = %q, want km", result.Unit)
	}

	e := result.Logs[0]
	if e.ID != "a" || e.Kind != "run" {
		t.Fatalf("unexpected first entry: %+v", e)
	}
	if e.Duration != "00:25:00" || e.Pace != "5:00 /km" || e.Speed != "12.0 km/h" {
		t.Fatalf("unexpected formatting: %+v", e)
	}
	if result.Logs[1].Speed != "20.0 km/h" {
		t.Fatalf("ride speed = %q, want 20.0 km/h", result.Logs[1].Speed)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, pace.Kilometers, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Logs != nil {
		t.Fatal("logs should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, pace.Kilometers, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestWriteJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	WriteJSON(&buf, nil, pace.Miles)

	// Pretty-printed JSON should contain newlines and indentation
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatal("JSON should be pretty-printed with indentation")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(sampleLogs(), pace.Kilometers, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, e := range result.Logs {
		if _, err := time.Parse(time.RFC3339, e.StartTime); err != nil {
			t.Fatalf("start_time is not valid RFC3339: %q", e.StartTime)
		}
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{-5, "00:00:00"},
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
