package nv12play

import "time"

// DefaultSleepGranularity bounds how late a frame can be presented.
const DefaultSleepGranularity = time.Millisecond

// Clock is the time source of the pacing loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Pacer decides when the next frame is due. The loop polls Due and calls Wait
// while it is false; Wait is the only place the loop gives up the processor.
type Pacer struct {
	clock       Clock
	interval    time.Duration
	granularity time.Duration
	last        time.Time
	checked     time.Time
}

// NewPacer creates a pacer presenting one frame per interval. Wait sleeps
// for granularity.
func NewPacer(clock Clock, interval, granularity time.Duration) *Pacer {
	if clock == nil {
		clock = SystemClock
	}
	if granularity <= 0 {
		granularity = DefaultSleepGranularity
	}
	p := &Pacer{
		clock:       clock,
		interval:    interval,
		granularity: granularity,
	}
	p.Reset()
	return p
}

// Reset starts a new interval now.
func (p *Pacer) Reset() {
	p.last = p.clock.Now()
	p.checked = p.last
}

// Due reports whether at least one interval passed since the last Mark.
func (p *Pacer) Due() bool {
	p.checked = p.clock.Now()
	return p.checked.Sub(p.last) >= p.interval
}

// Mark records that a frame was handled at the time of the last Due check.
// Time lost beyond the interval is not caught up.
func (p *Pacer) Mark() {
	p.last = p.checked
}

// Wait yields until the next poll.
func (p *Pacer) Wait() {
	p.clock.Sleep(p.granularity)
}

// Interval returns the target time between two frames.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
