package audio

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Waveform is the closed set of oscillator shapes a voice can use.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSawtooth
)

// ErrUnknownWaveform is returned by ParseWaveform for unsupported names.
var ErrUnknownWaveform = errors.New("unknown waveform")

var waveformNames = map[string]Waveform{
	"sine":     WaveSine,
	"triangle": WaveTriangle,
	"square":   WaveSquare,
	"sawtooth": WaveSawtooth,
}

// ParseWaveform maps a configuration name to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	w, ok := waveformNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
	}
	return w, nil
}

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// at evaluates the waveform at phase p in [0, 1). Output is in [-1, 1].
func (w Waveform) at(p float64) float64 {
	switch w {
	case WaveTriangle:
		if p < 0.5 {
			return 4.0*p - 1.0
		}
		return 3.0 - 4.0*p
	case WaveSquare:
		if p < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveSawtooth:
		return 2.0*p - 1.0
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
