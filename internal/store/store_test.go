package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// addLog is a test helper that inserts a cardio log started at the given time.
func addLog(t *testing.T, s *Store, start time.Time, km, sec float64) *CardioLog {
	t.Helper()
	l, err := s.AddCardioLog(CardioLog{StartedAt: start, DistanceKm: km, DurationSec: sec})
	if err != nil {
		t.Fatalf("add cardio log: %v", err)
	}
	return l
}

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pulsetimer.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	addLog(t, s, time.Now(), 1, 300)
	s.Close()

	// Reopen: should succeed, not re-migrate, and keep data
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	logs, _ := s2.AllCardioLogs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log after reopen, got %d", len(logs))
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Cardio logs
// ============================================================

func TestAddAndGetCardioLog(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 4, 2, 6, 15, 0, 0, time.UTC)
	l, err := s.AddCardioLog(CardioLog{Kind: "ride", StartedAt: start, DistanceKm: 20.5, DurationSec: 3000, Notes: "hills"})
	if err != nil {
		t.Fatal(err)
	}
	if l.ID == "" {
		t.Fatal("expected generated ID")
	}
	if l.Kind != "ride" || l.DistanceKm != 20.5 || l.DurationSec != 3000 || l.Notes != "hills" {
		t.Fatalf("unexpected log: %+v", l)
	}
	if !l.StartedAt.Equal(start) {
		t.Fatalf("StartedAt = %v, want %v", l.StartedAt, start)
	}
	if l.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestAddCardioLogDefaults(t *testing.T) {
	s := newTestStore(t)
	l, err := s.AddCardioLog(CardioLog{DistanceKm: 3})
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != "run" {
		t.Fatalf("expected default kind run, got %q", l.Kind)
	}
	if time.Since(l.StartedAt) > time.Minute {
		t.Fatalf("StartedAt should default to now, got %v", l.StartedAt)
	}
}

func TestGetCardioLogNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetCardioLog("missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListCardioLogsFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	addLog(t, s, base.Add(-48*time.Hour), 10, 3600)
	addLog(t, s, base, 3, 900)
	s.AddCardioLog(CardioLog{Kind: "walk", StartedAt: base.Add(time.Hour), DistanceKm: 2, DurationSec: 1500})

	all, err := s.AllCardioLogs()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}
	// Newest first
	if all[0].Kind != "walk" || all[2].DistanceKm != 10 {
		t.Fatalf("unexpected order: %+v", all)
	}

	from := base.Add(-time.Hour)
	to := base.Add(2 * time.Hour)
	ranged, _ := s.ListCardioLogs(CardioFilter{From: &from, To: &to})
	if len(ranged) != 2 {
		t.Fatalf("expected 2 logs in range, got %d", len(ranged))
	}

	walks, _ := s.ListCardioLogs(CardioFilter{Kind: "walk"})
	if len(walks) != 1 {
		t.Fatalf("expected 1 walk, got %d", len(walks))
	}

	limited, _ := s.ListCardioLogs(CardioFilter{Limit: 1})
	if len(limited) != 1 {
		t.Fatalf("expected 1 log with limit, got %d", len(limited))
	}
}

func TestListCardioLogsEmpty(t *testing.T) {
	s := newTestStore(t)
	logs, err := s.AllCardioLogs()
	if err != nil {
		t.Fatal(err)
	}
	if logs != nil {
		t.Fatalf("expected nil slice, got %d items", len(logs))
	}
}

func TestUpdateCardioNotes(t *testing.T) {
	s := newTestStore(t)
	l := addLog(t, s, time.Now(), 5, 1500)
	s.UpdateCardioNotes(l.ID, "tempo")
	got, _ := s.GetCardioLog(l.ID)
	if got.Notes != "tempo" {
		t.Fatalf("expected notes tempo, got %q", got.Notes)
	}
}

func TestDeleteCardioLog(t *testing.T) {
	s := newTestStore(t)
	l := addLog(t, s, time.Now(), 5, 1500)
	if err := s.DeleteCardioLog(l.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCardioLog(l.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("second delete should report sql.ErrNoRows, got %v", err)
	}
}

func TestGetDailyDistance(t *testing.T) {
	s := newTestStore(t)
	d1 := localDay(2026, 4, 10)
	d2 := localDay(2026, 4, 12)
	addLog(t, s, d1.Add(7*time.Hour), 3, 900)
	addLog(t, s, d1.Add(18*time.Hour), 2.5, 800)
	addLog(t, s, d2.Add(9*time.Hour), 10, 3600)
	addLog(t, s, d2.AddDate(0, 0, 5), 1, 100) // outside range

	days, err := s.GetDailyDistance(d1, d2.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Day.Equal(d1) || days[0].DistanceKm != 5.5 || days[0].Count != 2 || days[0].DurationSec != 1700 {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if !days[1].Day.Equal(d2) || days[1].DistanceKm != 10 {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
}

// ============================================================
// Goals
// ============================================================

func TestCreateAndListGoals(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 4, 10, 15, 0, 0, 0, time.Local)

	g, err := s.CreateGoal("distance", 5, day)
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == "" || g.Type != "distance" || g.Target != 5 || g.Progress != 0 {
		t.Fatalf("unexpected goal: %+v", g)
	}
	if !g.Day.Equal(localDay(2026, 4, 10)) {
		t.Fatalf("goal day should be local midnight, got %v", g.Day)
	}

	s.CreateGoal("intervals", 8, day.Add(2*time.Hour))
	s.CreateGoal("calories", 400, day.AddDate(0, 0, 1))

	goals, err := s.ListGoals(day)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals for the day, got %d", len(goals))
	}
}

func TestUpdateGoal(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGoal("duration", 1800, time.Now())

	s.UpdateGoalProgress(g.ID, 900)
	s.UpdateGoalTarget(g.ID, 2400)

	got, _ := s.GetGoal(g.ID)
	if got.Progress != 900 || got.Target != 2400 {
		t.Fatalf("unexpected goal after update: %+v", got)
	}
}

func TestDeleteGoal(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGoal("duration", 1800, time.Now())
	if err := s.DeleteGoal(g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoal(g.ID); err == nil {
		t.Fatal("expected error for deleted goal")
	}
	if err := s.DeleteGoal(g.ID); err == nil {
		t.Fatal("expected error deleting missing goal")
	}
}

// ============================================================
// Counters
// ============================================================

func TestCounters(t *testing.T) {
	s := newTestStore(t)
	day := localDay(2026, 4, 10)

	c, err := s.GetCounters(day)
	if err != nil {
		t.Fatal(err)
	}
	if c != (Counters{}) {
		t.Fatalf("expected zero counters, got %+v", c)
	}

	s.IncrementCounter(day.Add(8*time.Hour), CounterIntervals, 3)
	s.IncrementCounter(day.Add(20*time.Hour), CounterIntervals, 5)
	s.IncrementCounter(day, CounterExercises, 1)
	s.SetCounter(day, CounterCalories, 250.5)
	s.IncrementCounter(day.AddDate(0, 0, 1), CounterIntervals, 100)

	c, _ = s.GetCounters(day)
	if c.Intervals != 8 || c.Exercises != 1 || c.Calories != 250.5 {
		t.Fatalf("unexpected counters: %+v", c)
	}

	s.SetCounter(day, CounterCalories, 10)
	c, _ = s.GetCounters(day)
	if c.Calories != 10 {
		t.Fatalf("SetCounter should overwrite, got %v", c.Calories)
	}
}

// ============================================================
// Presets
// ============================================================

func TestPresets(t *testing.T) {
	s := newTestStore(t)

	tabata, err := s.CreatePreset(Preset{Name: "Tabata", Kind: "interval", Work: 20, Rest: 10, Cycles: 8})
	if err != nil {
		t.Fatal(err)
	}
	if tabata.ID == 0 || tabata.Work != 20 || tabata.Rest != 10 || tabata.Cycles != 8 {
		t.Fatalf("unexpected preset: %+v", tabata)
	}
	s.CreatePreset(Preset{Name: "Calm", Kind: "breath", Inhale: 4, Hold1: 7, Exhale: 8, Cycles: 4})

	if _, err := s.CreatePreset(Preset{Name: "Tabata", Kind: "interval"}); err == nil {
		t.Fatal("expected error for duplicate preset name")
	}

	intervals, _ := s.ListPresets("interval")
	if len(intervals) != 1 || intervals[0].Name != "Tabata" {
		t.Fatalf("unexpected interval presets: %+v", intervals)
	}
	all, _ := s.ListPresets("")
	if len(all) != 2 || all[0].Name != "Calm" {
		t.Fatalf("expected 2 presets sorted by name, got %+v", all)
	}

	s.DeletePreset(tabata.ID)
	if _, err := s.GetPreset(tabata.ID); err == nil {
		t.Fatal("expected error for deleted preset")
	}
}

// ============================================================
// Timer sessions
// ============================================================

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	ts, err := s.StartSession("interval", 120, 3)
	if err != nil {
		t.Fatal(err)
	}
	if ts.Status != "running" || ts.PlannedSec != 120 || ts.Cycles != 3 {
		t.Fatalf("unexpected session: %+v", ts)
	}
	if ts.CompletedAt != nil {
		t.Fatal("CompletedAt should be nil")
	}

	s.CompleteSession(ts.ID, 3)
	done, _ := s.GetSession(ts.ID)
	if done.Status != "completed" || done.CompletedAt == nil || done.CompletedCycles != 3 {
		t.Fatalf("session should be completed: %+v", done)
	}

	// Closing twice leaves the first outcome in place
	s.CancelSession(ts.ID, 0)
	still, _ := s.GetSession(ts.ID)
	if still.Status != "completed" {
		t.Fatalf("expected completed, got %s", still.Status)
	}
}

func TestCancelSession(t *testing.T) {
	s := newTestStore(t)
	ts, _ := s.StartSession("breath", 96, 6)
	s.CancelSession(ts.ID, 2)
	got, _ := s.GetSession(ts.ID)
	if got.Status != "cancelled" || got.CompletedCycles != 2 || got.CompletedAt == nil {
		t.Fatalf("unexpected cancelled session: %+v", got)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSession(999); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestGetSessionStats(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.StartSession("interval", 120, 3)
	s.CompleteSession(a.ID, 3)
	b, _ := s.StartSession("breath", 96, 6)
	s.CompleteSession(b.ID, 6)
	c, _ := s.StartSession("interval", 600, 10)
	s.CancelSession(c.ID, 1)

	now := time.Now().UTC()
	completed, total, err := s.GetSessionStats(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if completed != 2 || total != 216 {
		t.Fatalf("expected 2 sessions / 216s, got %d / %d", completed, total)
	}

	sessions, _ := s.ListSessions(2)
	if len(sessions) != 2 || sessions[0].ID != c.ID {
		t.Fatalf("expected newest two sessions, got %+v", sessions)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"interval_work":       "30",
		"interval_rest":       "15",
		"interval_cycles":     "8",
		"breath_pattern":      "box",
		"daily_distance_goal": "5",
		"daily_interval_goal": "8",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("interval_work", "45")
	s.SetSetting("interval_work", "40")
	val, _ := s.GetSetting("interval_work")
	if val != "40" {
		t.Fatalf("expected 40, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetSettingFloat(t *testing.T) {
	s := newTestStore(t)
	if v := s.GetSettingFloat("daily_distance_goal", 1); v != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
	s.SetSetting("bad", "abc")
	if v := s.GetSettingFloat("bad", 7); v != 7 {
		t.Fatalf("expected fallback 7, got %v", v)
	}
	if v := s.GetSettingFloat("missing", 3); v != 3 {
		t.Fatalf("expected fallback 3, got %v", v)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 6 {
		t.Fatalf("expected at least 6 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}
