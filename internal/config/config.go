package config

import (
	"errors"
	"fmt"

	"github.com/iburimskiy/polyrhythm/internal/audio"
)

const (
	WindowWidth  = 720
	WindowHeight = 720

	SampleRate     = 44100
	VisualRingSize = 8192

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 30

	// Tempo
	MinBPM          = 70.0
	MaxBPM          = 90.0
	TempoModSpeed   = 0.05
	MidpointBPM     = (MinBPM + MaxBPM) / 2
	TempoHalfRange  = (MaxBPM - MinBPM) / 2
	RhythmNoteSecs  = 0.1
	PointerNoteSecs = 0.05

	// Rhythm ticks are drained this far ahead of the clock, one update at
	// 60 TPS, and play with a silent lead-in up to their exact time.
	ScheduleLookahead = 1.0 / 60

	// Pointer
	PointerWindowMs = 75

	// Particles
	ParticleDensity  = 0.0002
	MaxParticleCount = 300
	ParticleMinSize  = 1.0
	ParticleMaxSize  = 3.0
	ParticleMinSpeed = 0.5
	ParticleMaxSpeed = 1.5
	ParticleFadeRate = 0.3
	ParticleMinAlpha = 0.01

	// Pulses and ripples
	PulseRadiusRatio = 0.45
	PulseMaxBlur     = 12.0
	RippleMaxRadius  = 60.0

	// Background grid
	GridLineCount      = 15
	GridBaseOpacity    = 0.03
	GridPulseAmplitude = 0.02
	GridPulseSpeed     = 0.1
	GridWobbleAmount   = 5.0
	GridWobbleSpeed    = 0.02
	GridWobbleRatio    = 0.7
)

// ErrInvalidRhythm is returned for definitions with non-positive timing fields.
var ErrInvalidRhythm = errors.New("invalid rhythm definition")

// RhythmDefinition describes one continuously looping rhythm.
type RhythmDefinition struct {
	ID           string
	BeatCount    int
	Subdivision  int
	Frequency    float64
	DecaySeconds float64
	Waveform     string
}

// PointerRhythmDefinition describes the pointer-driven one-off trigger.
type PointerRhythmDefinition struct {
	BeatCount     int
	Subdivision   int
	BaseFrequency float64
	DecaySeconds  float64
	Waveform      string
}

// Validate rejects non-positive timing fields and unknown waveforms.
func (d RhythmDefinition) Validate() error {
	if d.BeatCount <= 0 || d.Subdivision <= 0 {
		return fmt.Errorf("%w %q: beats=%d subdivision=%d", ErrInvalidRhythm, d.ID, d.BeatCount, d.Subdivision)
	}
	if d.Frequency <= 0 || d.DecaySeconds <= 0 {
		return fmt.Errorf("%w %q: frequency=%g decay=%g", ErrInvalidRhythm, d.ID, d.Frequency, d.DecaySeconds)
	}
	if _, err := d.Wave(); err != nil {
		return err
	}
	return nil
}

// Wave parses the configured waveform name.
func (d RhythmDefinition) Wave() (audio.Waveform, error) {
	w, err := audio.ParseWaveform(d.Waveform)
	if err != nil {
		return w, fmt.Errorf("rhythm %q: %w", d.ID, err)
	}
	return w, nil
}

func (d PointerRhythmDefinition) Validate() error {
	if d.BeatCount <= 0 || d.Subdivision <= 0 || d.DecaySeconds <= 0 || d.BaseFrequency <= 0 {
		return fmt.Errorf("%w: pointer beats=%d subdivision=%d decay=%g", ErrInvalidRhythm, d.BeatCount, d.Subdivision, d.DecaySeconds)
	}
	if _, err := d.Wave(); err != nil {
		return err
	}
	return nil
}

func (d PointerRhythmDefinition) Wave() (audio.Waveform, error) {
	w, err := audio.ParseWaveform(d.Waveform)
	if err != nil {
		return w, fmt.Errorf("pointer rhythm: %w", err)
	}
	return w, nil
}

// Rhythms returns the three continuous rhythms.
func Rhythms() []RhythmDefinition {
	return []RhythmDefinition{
		{ID: "rhythm1", BeatCount: 3, Subdivision: 4, Frequency: 220, DecaySeconds: 1.0, Waveform: "sine"},
		{ID: "rhythm2", BeatCount: 4, Subdivision: 4, Frequency: 330, DecaySeconds: 1.2, Waveform: "triangle"},
		{ID: "rhythm3", BeatCount: 5, Subdivision: 8, Frequency: 440, DecaySeconds: 0.8, Waveform: "square"},
	}
}

func PointerRhythm() PointerRhythmDefinition {
	return PointerRhythmDefinition{
		BeatCount:     7,
		Subdivision:   8,
		BaseFrequency: 440,
		DecaySeconds:  0.5,
		Waveform:      "sawtooth",
	}
}

// Scale returns the pointer pitch scale as MIDI note numbers.
func Scale() []int {
	return []int{60, 62, 64, 67, 69, 72, 74, 76}
}

// RhythmEnvelope derives a rhythm voice envelope from its decay window.
func RhythmEnvelope(d RhythmDefinition) audio.Envelope {
	return audio.Envelope{
		Attack:  0.01,
		Decay:   d.DecaySeconds * 0.5,
		Sustain: 0.2,
		Release: d.DecaySeconds * 0.5,
	}
}

func PointerEnvelope() audio.Envelope {
	return audio.Envelope{
		Attack:  0.001,
		Decay:   0.1,
		Sustain: 0,
		Release: 0.1,
	}
}

// Validate checks every built-in table.
func Validate() error {
	seen := make(map[string]bool)
	for _, d := range Rhythms() {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidRhythm, d.ID)
		}
		seen[d.ID] = true
	}
	if err := PointerRhythm().Validate(); err != nil {
		return err
	}
	if len(Scale()) == 0 {
		return errors.New("empty pitch scale")
	}
	return nil
}
