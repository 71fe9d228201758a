package phasetimer

import "time"

// Kind selects the phase topology a Config runs.
type Kind string

const (
	KindWorkRest Kind = "interval"
	KindBreath   Kind = "breath"
)

// Phase names.
type Phase string

const (
	PhaseNone   Phase = ""
	PhaseWork   Phase = "work"
	PhaseRest   Phase = "rest"
	PhaseInhale Phase = "inhale"
	PhaseHold1  Phase = "hold1"
	PhaseExhale Phase = "exhale"
	PhaseHold2  Phase = "hold2"
)

const (
	minMandatory = time.Second
	minPhase     = 10 * time.Millisecond
)

// PhaseSpec is one named step of a cycle. Optional phases are skipped
// entirely when their duration is zero.
type PhaseSpec struct {
	Name     Phase
	Duration time.Duration
	Optional bool
}

// Config is an ordered phase sequence repeated Cycles times.
//
// When TrimLastCycle is set, optional phases that follow the last mandatory
// phase are not played on the final cycle (no rest after the last work).
type Config struct {
	Kind          Kind
	Phases        []PhaseSpec
	Cycles        int
	TrimLastCycle bool
}

// WorkRest builds a work/rest interval config. Work is floored at one
// second, rest at zero, cycles at one.
func WorkRest(work, rest time.Duration, cycles int) Config {
	return Config{
		Kind: KindWorkRest,
		Phases: []PhaseSpec{
			{Name: PhaseWork, Duration: clampMandatory(work)},
			{Name: PhaseRest, Duration: clampOptional(rest), Optional: true},
		},
		Cycles:        clampCycles(cycles),
		TrimLastCycle: true,
	}
}

// Breath builds an inhale/hold/exhale/hold config. The holds are optional.
func Breath(inhale, hold1, exhale, hold2 time.Duration, cycles int) Config {
	return Config{
		Kind: KindBreath,
		Phases: []PhaseSpec{
			{Name: PhaseInhale, Duration: clampMandatory(inhale)},
			{Name: PhaseHold1, Duration: clampOptional(hold1), Optional: true},
			{Name: PhaseExhale, Duration: clampMandatory(exhale)},
			{Name: PhaseHold2, Duration: clampOptional(hold2), Optional: true},
		},
		Cycles: clampCycles(cycles),
	}
}

// Box is the 4-4-4-4 box breathing pattern.
func Box() Config {
	return Breath(4*time.Second, 4*time.Second, 4*time.Second, 4*time.Second, 6)
}

// FourSevenEight is the 4-7-8 relaxing breath.
func FourSevenEight() Config {
	return Breath(4*time.Second, 7*time.Second, 8*time.Second, 0, 4)
}

// BreathPattern returns a named breathing preset.
func BreathPattern(name string) (Config, bool) {
	switch name {
	case "box":
		return Box(), true
	case "478", "4-7-8":
		return FourSevenEight(), true
	}
	return Config{}, false
}

// Duration returns the configured duration of the named phase.
func (c Config) Duration(name Phase) time.Duration {
	for _, p := range c.Phases {
		if p.Name == name {
			return p.Duration
		}
	}
	return 0
}

// TotalPlanned sums every phase that will actually be played.
func (c Config) TotalPlanned() time.Duration {
	cycles := clampCycles(c.Cycles)
	var perCycle, trimmed time.Duration
	last := c.lastMandatory()
	for i, p := range c.Phases {
		if c.skipped(i) {
			continue
		}
		perCycle += p.Duration
		if i > last {
			trimmed += p.Duration
		}
	}
	total := perCycle * time.Duration(cycles)
	if c.TrimLastCycle {
		total -= trimmed
	}
	return total
}

func (c Config) skipped(i int) bool {
	p := c.Phases[i]
	return p.Optional && p.Duration <= 0
}

func (c Config) lastMandatory() int {
	last := -1
	for i, p := range c.Phases {
		if !p.Optional {
			last = i
		}
	}
	return last
}

// next returns the index of the phase after i within the given cycle, or
// -1 at the end of the cycle.
func (c Config) next(i, cycle int) int {
	finalCycle := cycle >= clampCycles(c.Cycles)
	last := c.lastMandatory()
	for j := i + 1; j < len(c.Phases); j++ {
		if c.skipped(j) {
			continue
		}
		if finalCycle && c.TrimLastCycle && j > last {
			return -1
		}
		return j
	}
	return -1
}

func (c Config) first() int {
	for i := range c.Phases {
		if !c.skipped(i) {
			return i
		}
	}
	return -1
}

func clampMandatory(d time.Duration) time.Duration {
	if d < minMandatory {
		return minMandatory
	}
	return d
}

func clampOptional(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func clampCycles(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
