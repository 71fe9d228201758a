// Package phasetimer runs a sequence of named phases for a number of cycles,
// deriving remaining time from a wall-clock deadline on every tick so that
// late or dropped ticks correct themselves.
package phasetimer

import (
	"sync"
	"time"
)

// Status of a Timer.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// A phase is considered exhausted once this little time is left.
const tolerance = 100 * time.Microsecond

// State is a snapshot of a Timer.
type State struct {
	Status        Status
	Kind          Kind
	Phase         Phase
	Cycle         int // 1-based, 0 while idle
	Cycles        int
	Remaining     time.Duration
	Elapsed       time.Duration
	PhaseDuration time.Duration
	TotalPlanned  time.Duration
	PhaseProgress float64
	TotalProgress float64

	// Seq increases with every published snapshot. PhaseChanged is set on
	// the snapshot that follows a start, phase change or completion.
	Seq          uint64
	PhaseChanged bool
}

// Option configures a Timer.
type Option func(*Timer)

func WithClock(c Clock) Option { return func(t *Timer) { t.clock = c } }

func WithDriver(d Driver) Option { return func(t *Timer) { t.driver = d } }

func WithInterval(every time.Duration) Option {
	return func(t *Timer) {
		if every > 0 {
			t.every = every
		}
	}
}

// Timer is the phase state machine. It is safe for concurrent use;
// subscribers are called without the lock held.
type Timer struct {
	mu     sync.Mutex
	clock  Clock
	driver Driver
	every  time.Duration

	cfg   Config
	total time.Duration
	state State

	index     int
	deadline  time.Time
	phaseDur  time.Duration
	before    time.Duration
	gen       uint64
	changed   bool
	pending   []State
	nextSubID int
	subs      map[int]func(State)
	subOrder  []int
}

// New returns an idle Timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		clock: SystemClock{},
		every: DefaultInterval,
		subs:  make(map[int]func(State)),
		state: State{Status: StatusIdle},
	}
	for _, o := range opts {
		o(t)
	}
	if t.driver == nil {
		t.driver = NewTickerDriver()
	}
	return t
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Config returns the config of the current or last run.
func (t *Timer) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// Subscribe registers fn for every published snapshot and returns a
// function that removes it.
func (t *Timer) Subscribe(fn func(State)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextSubID
	t.nextSubID++
	t.subs[id] = fn
	t.subOrder = append(t.subOrder, id)
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
		for i, v := range t.subOrder {
			if v == id {
				t.subOrder = append(t.subOrder[:i], t.subOrder[i+1:]...)
				break
			}
		}
	}
}

// Start resets the timer and runs cfg from its first phase, even when a
// run is already in progress.
func (t *Timer) Start(cfg Config) {
	t.mu.Lock()
	t.stopDriverLocked()

	cfg.Cycles = clampCycles(cfg.Cycles)
	t.cfg = cfg
	t.total = cfg.TotalPlanned()
	t.before = 0
	t.deadline = time.Time{}
	t.phaseDur = 0
	t.state = State{
		Status:       StatusRunning,
		Kind:         cfg.Kind,
		Cycle:        1,
		Cycles:       cfg.Cycles,
		TotalPlanned: t.total,
		Seq:          t.state.Seq,
	}

	if first := cfg.first(); first >= 0 {
		t.beginLocked(first, cfg.Phases[first].Duration)
	} else {
		t.completeLocked()
	}
	t.flush()
}

// Pause freezes a running timer. It is a no-op in any other status.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state.Status != StatusRunning {
		t.mu.Unlock()
		return
	}
	remaining := t.remainingLocked()
	t.applyLocked(remaining)
	t.before += t.phaseDur - remaining
	t.state.Status = StatusPaused
	t.stopDriverLocked()
	t.emitLocked()
	t.flush()
}

// Resume continues a paused timer. The rest of the interrupted phase is
// played as a phase of its own, so PhaseProgress restarts from zero.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state.Status != StatusPaused {
		t.mu.Unlock()
		return
	}
	t.state.Status = StatusRunning
	t.beginLocked(t.index, t.state.Remaining)
	t.flush()
}

// Toggle pauses a running timer or resumes a paused one.
func (t *Timer) Toggle() {
	switch t.Snapshot().Status {
	case StatusRunning:
		t.Pause()
	case StatusPaused:
		t.Resume()
	}
}

// Reset stops the timer and returns it to idle.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.stopDriverLocked()
	t.index = 0
	t.deadline = time.Time{}
	t.phaseDur = 0
	t.before = 0
	t.total = 0
	t.state = State{Status: StatusIdle, Seq: t.state.Seq}
	t.changed = true
	t.emitLocked()
	t.flush()
}

// Tick recomputes the state from the clock. Drivers call it on their
// cadence; callers may also call it directly.
func (t *Timer) Tick() {
	t.mu.Lock()
	t.tickLocked()
	t.flush()
}

func (t *Timer) onTick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.tickLocked()
	t.flush()
}

func (t *Timer) tickLocked() {
	if t.state.Status != StatusRunning {
		return
	}
	remaining := t.remainingLocked()
	t.applyLocked(remaining)
	if remaining <= tolerance {
		t.advanceLocked()
		return
	}
	t.emitLocked()
}

func (t *Timer) beginLocked(index int, d time.Duration) {
	if d < minPhase {
		d = minPhase
	}
	t.index = index
	t.phaseDur = d
	t.deadline = t.clock.Now().Add(d)
	t.state.Phase = t.cfg.Phases[index].Name
	t.state.PhaseDuration = d
	t.changed = true

	t.gen++
	gen := t.gen
	t.driver.Start(t.every, func() { t.onTick(gen) })

	t.tickLocked()
}

func (t *Timer) advanceLocked() {
	t.before += t.phaseDur
	if next := t.cfg.next(t.index, t.state.Cycle); next >= 0 {
		t.beginLocked(next, t.cfg.Phases[next].Duration)
		return
	}
	if t.state.Cycle < t.cfg.Cycles {
		t.state.Cycle++
		first := t.cfg.first()
		t.beginLocked(first, t.cfg.Phases[first].Duration)
		return
	}
	t.completeLocked()
}

func (t *Timer) completeLocked() {
	t.stopDriverLocked()
	t.state.Status = StatusFinished
	t.state.Remaining = 0
	t.state.Elapsed = t.total
	t.state.PhaseProgress = 1
	t.state.TotalProgress = 1
	t.changed = true
	t.emitLocked()
}

func (t *Timer) remainingLocked() time.Duration {
	r := t.deadline.Sub(t.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}

func (t *Timer) applyLocked(remaining time.Duration) {
	inPhase := t.phaseDur - remaining
	elapsed := t.before + inPhase
	if elapsed > t.total {
		elapsed = t.total
	}
	t.state.Remaining = remaining
	t.state.Elapsed = elapsed
	t.state.PhaseProgress = fraction(inPhase, t.phaseDur)
	t.state.TotalProgress = fraction(elapsed, t.total)
}

func (t *Timer) stopDriverLocked() {
	t.gen++
	t.driver.Stop()
}

func (t *Timer) emitLocked() {
	t.state.Seq++
	t.state.PhaseChanged = t.changed
	t.changed = false
	t.pending = append(t.pending, t.state)
}

// flush releases the lock and delivers queued snapshots.
func (t *Timer) flush() {
	pending := t.pending
	t.pending = nil
	subs := make([]func(State), 0, len(t.subOrder))
	for _, id := range t.subOrder {
		subs = append(subs, t.subs[id])
	}
	t.mu.Unlock()

	for _, s := range pending {
		for _, fn := range subs {
			fn(s)
		}
	}
}

func fraction(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	f := float64(part) / float64(whole)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
