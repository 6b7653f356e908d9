package rhythm

import "math"

// MIDIToFrequency converts a MIDI note number to Hz in equal temperament
// (A4 = note 69 = 440 Hz).
func MIDIToFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// NormalizedDistance is the distance of (x, y) from the canvas centre divided
// by half the larger canvas dimension, clamped to [0, 1].
func NormalizedDistance(x, y, width, height float64) float64 {
	half := math.Max(width, height) / 2
	if half <= 0 {
		return 0
	}
	d := math.Hypot(x-width/2, y-height/2) / half
	return math.Max(0, math.Min(1, d))
}

// ScaleIndex quantizes a normalized distance onto a scale of length n.
func ScaleIndex(normalized float64, n int) int {
	if n <= 1 {
		return 0
	}
	idx := int(math.Floor(normalized * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
