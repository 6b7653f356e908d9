package transport

import (
	"time"
)

// Clock is the shared timing authority. Now advances continuously whether or
// not the transport is running; Start and Stop only gate scheduled triggers
// and tempo modulation.
type Clock struct {
	provider TimeProvider
	epoch    time.Time
	bpm      float64
	running  bool
}

// NewClock creates a stopped clock at the given tempo. A nil provider uses
// the monotonic system clock.
func NewClock(provider TimeProvider, bpm float64) *Clock {
	if provider == nil {
		provider = NewMonotonicTimeProvider()
	}
	return &Clock{
		provider: provider,
		epoch:    provider.Now(),
		bpm:      bpm,
	}
}

// Now returns seconds elapsed since the clock was created.
func (c *Clock) Now() float64 {
	return c.provider.Now().Sub(c.epoch).Seconds()
}

func (c *Clock) Start() { c.running = true }

func (c *Clock) Stop() { c.running = false }

func (c *Clock) Running() bool { return c.running }

func (c *Clock) BPM() float64 { return c.bpm }

func (c *Clock) SetBPM(bpm float64) {
	if bpm > 0 {
		c.bpm = bpm
	}
}

// StepPeriod is the length in seconds of one n-th note at the current tempo.
func (c *Clock) StepPeriod(subdivision int) float64 {
	return StepPeriod(c.bpm, subdivision)
}

// StepPeriod returns 60/bpm * 4/subdivision.
func StepPeriod(bpm float64, subdivision int) float64 {
	return 60 / bpm * (4 / float64(subdivision))
}
