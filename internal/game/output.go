package game

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/polyrhythm/internal/audio"
)

// SpeakerLock guards beep state shared with the speaker goroutine.
type SpeakerLock struct{}

func (SpeakerLock) Lock()   { speaker.Lock() }
func (SpeakerLock) Unlock() { speaker.Unlock() }

// Output opens the speaker on the first user start and plays the master bus.
type Output struct {
	rate    beep.SampleRate
	bus     *audio.Bus
	enabled bool
}

func NewOutput(rate beep.SampleRate, bus *audio.Bus) *Output {
	return &Output{rate: rate, bus: bus}
}

// Enable initialises the speaker. It must be called from a user action. A
// failed attempt leaves the output disabled so the next action can retry.
func (o *Output) Enable() error {
	if o.enabled {
		return nil
	}
	if err := speaker.Init(o.rate, o.rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("%w: %v", audio.ErrOutputUnavailable, err)
	}
	speaker.Play(o.bus.Streamer())
	o.enabled = true
	return nil
}

func (o *Output) Enabled() bool { return o.enabled }

// Close stops playback and releases the device.
func (o *Output) Close() {
	if !o.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	o.enabled = false
}
