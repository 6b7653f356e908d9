package audio

import (
	"fmt"
	"math"

	"github.com/faiface/beep"
)

// Sink receives rendered note streamers for playback.
type Sink interface {
	Play(s beep.Streamer)
}

// Bank owns a fixed set of voices and renders triggers into a Sink.
type Bank struct {
	rate   beep.SampleRate
	sink   Sink
	now    func() float64
	voices map[string]*Voice
}

// NewBank creates a voice bank. now reports the clock time in seconds and is
// used to turn an absolute trigger time into a playback delay.
func NewBank(rate beep.SampleRate, sink Sink, now func() float64, voices ...Voice) *Bank {
	b := &Bank{
		rate:   rate,
		sink:   sink,
		now:    now,
		voices: make(map[string]*Voice, len(voices)),
	}
	for i := range voices {
		v := voices[i]
		b.voices[v.ID] = &v
	}
	return b
}

// Voice returns the voice configured under id.
func (b *Bank) Voice(id string) (*Voice, bool) {
	v, ok := b.voices[id]
	return v, ok
}

// Trigger plays one note on the voice id at the given clock time. Times in the
// past play immediately. Triggering an unconfigured voice panics.
func (b *Bank) Trigger(id string, freq, duration, at float64) {
	v, ok := b.voices[id]
	if !ok {
		panic(fmt.Sprintf("audio: trigger on unconfigured voice %q", id))
	}
	s := v.Note(freq, duration, b.rate)
	if delay := at - b.now(); delay > 0 {
		if n := int(math.Round(delay * float64(b.rate))); n > 0 {
			s = beep.Seq(beep.Silence(n), s)
		}
	}
	b.sink.Play(s)
}
