// Package tracker connects the store to the goal calculator and the phase
// timer: it recomputes goal progress from stored activity and records timer
// runs as sessions.
package tracker

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ColeHockerApps/pulsetimer/internal/goal"
	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

// seededKey remembers the last day EnsureDailyGoals ran for, so goals the
// user deletes stay deleted.
const seededKey = "goals_seeded_on"

type Tracker struct {
	store *store.Store
	now   func() time.Time
}

func New(s *store.Store) *Tracker {
	return &Tracker{store: s, now: time.Now}
}

// Store exposes the underlying store for views that read it directly.
func (t *Tracker) Store() *store.Store { return t.store }

// GoalProgress is a goal with its recomputed completion.
type GoalProgress struct {
	Goal    store.Goal
	Percent float64
	Met     bool
}

// RefreshGoals recomputes and persists the progress of every goal set for
// day.
func (t *Tracker) RefreshGoals(day time.Time) ([]GoalProgress, error) {
	goals, err := t.store.ListGoals(day)
	if err != nil {
		return nil, fmt.Errorf("refresh goals: %w", err)
	}
	if len(goals) == 0 {
		return nil, nil
	}

	in, err := t.inputs(day)
	if err != nil {
		return nil, fmt.Errorf("refresh goals: %w", err)
	}

	out := make([]GoalProgress, 0, len(goals))
	for _, sg := range goals {
		g := goal.Updated(toGoal(sg), in)
		if g.Progress != sg.Progress {
			if err := t.store.UpdateGoalProgress(sg.ID, g.Progress); err != nil {
				return nil, fmt.Errorf("update goal progress: %w", err)
			}
			sg.Progress = g.Progress
		}
		out = append(out, GoalProgress{Goal: sg, Percent: goal.Percent(g), Met: goal.Met(g)})
	}
	return out, nil
}

// EnsureDailyGoals seeds day with the default distance and interval goals
// from settings, once per day. Days that already have goals are left alone,
// as are defaults set to zero.
func (t *Tracker) EnsureDailyGoals(day time.Time) error {
	key := day.Local().Format("2006-01-02")
	if seeded, _ := t.store.GetSetting(seededKey); seeded == key {
		return nil
	}
	goals, err := t.store.ListGoals(day)
	if err != nil {
		return fmt.Errorf("ensure daily goals: %w", err)
	}
	if len(goals) > 0 {
		return t.store.SetSetting(seededKey, key)
	}
	for _, d := range []struct {
		typ goal.Type
		key string
	}{
		{goal.TypeDistance, "daily_distance_goal"},
		{goal.TypeIntervals, "daily_interval_goal"},
	} {
		target := t.store.GetSettingFloat(d.key, 0)
		if target <= 0 {
			continue
		}
		if _, err := t.SetGoal(d.typ, target, day); err != nil {
			return fmt.Errorf("ensure daily goals: %w", err)
		}
	}
	return t.store.SetSetting(seededKey, key)
}

// SetGoal creates a goal for day with its progress already computed.
func (t *Tracker) SetGoal(typ goal.Type, target float64, day time.Time) (*store.Goal, error) {
	sg, err := t.store.CreateGoal(string(typ), target, day)
	if err != nil {
		return nil, err
	}
	in, err := t.inputs(day)
	if err != nil {
		return nil, err
	}
	sg.Progress = goal.ProgressValue(toGoal(*sg), in)
	if err := t.store.UpdateGoalProgress(sg.ID, sg.Progress); err != nil {
		return nil, fmt.Errorf("update goal progress: %w", err)
	}
	slog.Info("goal_event", "event", "created", "type", typ, "target", target)
	return sg, nil
}

// AddCalories adds manually tracked calories to day's counter.
func (t *Tracker) AddCalories(day time.Time, kcal float64) error {
	return t.store.IncrementCounter(day, store.CounterCalories, kcal)
}

// CompleteExercise bumps day's completed exercise counter.
func (t *Tracker) CompleteExercise(day time.Time) error {
	return t.store.IncrementCounter(day, store.CounterExercises, 1)
}

func (t *Tracker) inputs(day time.Time) (goal.Inputs, error) {
	logs, err := t.store.AllCardioLogs()
	if err != nil {
		return goal.Inputs{}, err
	}
	counters, err := t.store.GetCounters(day)
	if err != nil {
		return goal.Inputs{}, err
	}

	in := goal.Inputs{
		CardioLogs:         make([]goal.CardioLog, 0, len(logs)),
		CompletedExercises: counters.Exercises,
		CompletedIntervals: counters.Intervals,
		ManualCalories:     counters.Calories,
	}
	for _, l := range logs {
		in.CardioLogs = append(in.CardioLogs, goal.CardioLog{
			Date:        l.StartedAt.Local(),
			DistanceKm:  l.DistanceKm,
			DurationSec: l.DurationSec,
		})
	}
	return in, nil
}

func toGoal(sg store.Goal) goal.Goal {
	return goal.Goal{
		ID:       sg.ID,
		Type:     goal.Type(sg.Type),
		Target:   sg.Target,
		Progress: sg.Progress,
		Date:     sg.Day,
	}
}

// ============================================================
// Timer sessions
// ============================================================

// BeginSession records the start of a timer run of cfg.
func (t *Tracker) BeginSession(cfg phasetimer.Config) (int64, error) {
	ts, err := t.store.StartSession(string(cfg.Kind), int64(cfg.TotalPlanned()/time.Second), cfg.Cycles)
	if err != nil {
		return 0, err
	}
	slog.Info("timer_event", "event", "started", "kind", cfg.Kind, "session", ts.ID)
	return ts.ID, nil
}

// RecordSession closes session id from the timer's final state. Finished
// runs complete the session, anything else cancels it. Completed interval
// cycles are added to today's interval counter.
func (t *Tracker) RecordSession(id int64, st phasetimer.State) error {
	cycles := CompletedCycles(st)
	if st.Status == phasetimer.StatusFinished {
		if err := t.store.CompleteSession(id, cycles); err != nil {
			return err
		}
	} else if err := t.store.CancelSession(id, cycles); err != nil {
		return err
	}

	if st.Kind == phasetimer.KindWorkRest && cycles > 0 {
		if err := t.store.IncrementCounter(t.now(), store.CounterIntervals, float64(cycles)); err != nil {
			return err
		}
	}
	slog.Info("timer_event", "event", "recorded", "session", id, "status", st.Status, "cycles", cycles)
	return nil
}

// CompletedCycles is the number of whole cycles st has played.
func CompletedCycles(st phasetimer.State) int {
	switch st.Status {
	case phasetimer.StatusFinished:
		return st.Cycles
	case phasetimer.StatusIdle:
		return 0
	}
	if st.Cycle > 1 {
		return st.Cycle - 1
	}
	return 0
}

// ============================================================
// Timer configs
// ============================================================

// IntervalConfig builds the work/rest config from the saved settings.
func (t *Tracker) IntervalConfig() phasetimer.Config {
	work := t.store.GetSettingFloat("interval_work", 30)
	rest := t.store.GetSettingFloat("interval_rest", 15)
	cycles := t.store.GetSettingFloat("interval_cycles", 8)
	return phasetimer.WorkRest(seconds(work), seconds(rest), int(cycles))
}

// BreathConfig returns the saved breathing pattern, box when unset.
func (t *Tracker) BreathConfig() phasetimer.Config {
	name, _ := t.store.GetSetting("breath_pattern")
	if cfg, ok := phasetimer.BreathPattern(name); ok {
		return cfg
	}
	return phasetimer.Box()
}

// SaveIntervalDefaults stores work/rest seconds and cycles as the defaults
// for new interval runs.
func (t *Tracker) SaveIntervalDefaults(work, rest, cycles int) error {
	for k, v := range map[string]int{
		"interval_work":   work,
		"interval_rest":   rest,
		"interval_cycles": cycles,
	} {
		if err := t.store.SetSetting(k, strconv.Itoa(v)); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// PresetConfig converts a stored preset into a timer config.
func PresetConfig(p store.Preset) phasetimer.Config {
	if p.Kind == string(phasetimer.KindBreath) {
		return phasetimer.Breath(secs(p.Inhale), secs(p.Hold1), secs(p.Exhale), secs(p.Hold2), p.Cycles)
	}
	return phasetimer.WorkRest(secs(p.Work), secs(p.Rest), p.Cycles)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func secs(v int) time.Duration {
	return time.Duration(v) * time.Second
}
