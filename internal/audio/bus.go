package audio

import (
	"errors"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Bus mixes every triggered note into one master streamer with gain and a
// level tap. It implements Sink.
type Bus struct {
	lock  sync.Locker
	mixer *beep.Mixer
	tap   *Tap
	out   beep.Streamer
}

// NewBus creates a master bus. lock guards the mixer against the output
// device pulling samples concurrently; nil uses an internal mutex.
func NewBus(lock sync.Locker, gain float64, ringSize int) *Bus {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	mixer := &beep.Mixer{}
	tap := NewTap(mixer, ringSize)
	return &Bus{
		lock:  lock,
		mixer: mixer,
		tap:   tap,
		out:   &effects.Gain{Streamer: tap, Gain: gain - 1},
	}
}

// Play adds s to the mix.
func (b *Bus) Play(s beep.Streamer) {
	b.lock.Lock()
	b.mixer.Add(s)
	b.lock.Unlock()
}

// Streamer is the master output to hand to the device.
func (b *Bus) Streamer() beep.Streamer { return b.out }

// Active reports how many notes are still playing.
func (b *Bus) Active() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.mixer.Len()
}

// Level is the RMS of the most recent n samples.
func (b *Bus) Level(n int) float64 { return b.tap.Level(n) }

// ErrOutputUnavailable is returned when the output device cannot be enabled.
var ErrOutputUnavailable = errors.New("audio output unavailable")
