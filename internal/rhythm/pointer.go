package rhythm

import (
	"errors"
	"time"

	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/logger"
)

// PointerVoiceID is the voice bank id of the pointer voice.
const PointerVoiceID = "pointer"

// RippleSink records a ripple at a pointer position.
type RippleSink interface {
	AddRipple(x, y, start, decay float64) uint64
}

// PointerTrigger turns rate-limited pointer movement into one-off notes whose
// pitch follows the distance from the canvas centre.
type PointerTrigger struct {
	def      config.PointerRhythmDefinition
	scale    []int
	noteSecs float64
	limiter  *RateLimiter

	voices  Voices
	ripples RippleSink
	log     *logger.Logger

	triggered uint64
	dropped   uint64
}

func NewPointerTrigger(def config.PointerRhythmDefinition, scale []int, noteSecs float64, window time.Duration, voices Voices, ripples RippleSink, log *logger.Logger) (*PointerTrigger, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if len(scale) == 0 {
		return nil, errors.New("pointer trigger: empty scale")
	}
	return &PointerTrigger{
		def:      def,
		scale:    append([]int(nil), scale...),
		noteSecs: noteSecs,
		limiter:  NewRateLimiter(window),
		voices:   voices,
		ripples:  ripples,
		log:      log,
	}, nil
}

// Frequency returns the note frequency for a pointer at (x, y).
func (p *PointerTrigger) Frequency(x, y, width, height float64) float64 {
	idx := ScaleIndex(NormalizedDistance(x, y, width, height), len(p.scale))
	return MIDIToFrequency(p.scale[idx])
}

// Move handles a pointer event at clock time now. It reports whether the
// event produced a trigger.
func (p *PointerTrigger) Move(x, y, width, height, now float64) bool {
	if !p.limiter.Allow(now) {
		p.dropped++
		p.log.Debugf("pointer event dropped inside %v window", p.limiter.Window())
		return false
	}
	freq := p.Frequency(x, y, width, height)
	p.voices.Trigger(PointerVoiceID, freq, p.noteSecs, now)
	p.ripples.AddRipple(x, y, now, p.def.DecaySeconds)
	p.triggered++
	p.log.Debugf("pointer trigger at (%.0f, %.0f) %.1f Hz", x, y, freq)
	return true
}

// Stats returns how many events triggered and how many were dropped.
func (p *PointerTrigger) Stats() (triggered, dropped uint64) {
	return p.triggered, p.dropped
}
