package phasetimer

import (
	"sync"
	"time"
)

// DefaultInterval is the tick cadence used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Driver delivers periodic ticks. Start replaces any previous registration;
// Stop cancels it before returning. Neither blocks.
type Driver interface {
	Start(every time.Duration, fn func())
	Stop()
}

// TickerDriver ticks from a background goroutine.
type TickerDriver struct {
	mu   sync.Mutex
	done chan struct{}
}

func NewTickerDriver() *TickerDriver {
	return &TickerDriver{}
}

func (d *TickerDriver) Start(every time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	if every <= 0 {
		every = DefaultInterval
	}
	done := make(chan struct{})
	d.done = done

	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
}

func (d *TickerDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *TickerDriver) stopLocked() {
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
}

// ManualDriver holds a single registration that an outside loop fires, for
// example a UI event loop or a test.
type ManualDriver struct {
	mu    sync.Mutex
	fn    func()
	every time.Duration
}

func NewManualDriver() *ManualDriver {
	return &ManualDriver{}
}

func (d *ManualDriver) Start(every time.Duration, fn func()) {
	d.mu.Lock()
	d.fn = fn
	d.every = every
	d.mu.Unlock()
}

func (d *ManualDriver) Stop() {
	d.mu.Lock()
	d.fn = nil
	d.mu.Unlock()
}

// Armed reports whether a registration is live.
func (d *ManualDriver) Armed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Interval is the cadence requested by the current registration.
func (d *ManualDriver) Interval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.every
}

// Fire delivers one tick if armed and reports whether it did.
func (d *ManualDriver) Fire() bool {
	d.mu.Lock()
	fn := d.fn
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
