package audio

import (
	"math"

	"github.com/faiface/beep"
)

// noteGain keeps several overlapping voices below full scale.
const noteGain = 0.25

// Voice is a configured sound source. It holds no playback state; every
// trigger renders an independent note streamer.
type Voice struct {
	ID       string
	Waveform Waveform
	Envelope Envelope
}

// note is one enveloped oscillator note.
type note struct {
	wave     Waveform
	env      Envelope
	freq     float64
	gate     float64
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
}

// Note renders a streamer for a single note of the given frequency held for
// gate seconds.
func (v *Voice) Note(freq, gate float64, rate beep.SampleRate) beep.Streamer {
	return &note{
		wave:  v.Waveform,
		env:   v.Envelope,
		freq:  freq,
		gate:  gate,
		rate:  rate,
		total: int(math.Round(v.Envelope.Length(gate) * float64(rate))),
	}
}

func (n *note) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if n.position >= n.total {
			return i, i > 0
		}
		t := float64(n.position) / float64(n.rate)
		val := n.wave.at(n.phase) * n.env.Level(t, n.gate) * noteGain
		samples[i][0] = val
		samples[i][1] = val

		n.phase += n.freq / float64(n.rate)
		n.phase -= math.Floor(n.phase)
		n.position++
	}
	return len(samples), true
}

func (n *note) Err() error { return nil }
