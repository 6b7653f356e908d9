package transport

import "math"

// TempoModulator produces a slowly breathing tempo around a midpoint.
type TempoModulator struct {
	Midpoint  float64
	HalfRange float64
	Speed     float64
}

// BPM returns the modulated tempo at time now (seconds).
func (m TempoModulator) BPM(now float64) float64 {
	return m.Midpoint + math.Sin(now*m.Speed)*m.HalfRange
}

// Apply writes the modulated tempo into c while c is running. A stopped clock
// keeps its last tempo.
func (m TempoModulator) Apply(c *Clock, now float64) {
	if !c.Running() {
		return
	}
	c.SetBPM(m.BPM(now))
}
