package rhythm

import (
	"math"

	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/logger"
	"github.com/iburimskiy/polyrhythm/internal/schedule"
	"github.com/iburimskiy/polyrhythm/internal/transport"
)

// Clock is the part of the transport a sequencer reads.
type Clock interface {
	Now() float64
	BPM() float64
}

// Scheduler is the host's scheduleAt/cancel primitive.
type Scheduler interface {
	ScheduleAt(at float64, fn schedule.Func) schedule.Handle
	Cancel(h schedule.Handle) bool
}

// Voices plays notes.
type Voices interface {
	Trigger(id string, freq, duration, at float64)
}

// PulseSink records a central pulse for a rhythm tick.
type PulseSink interface {
	AddPulse(rhythmID string, start, decay float64) uint64
}

// Sequencer loops one rhythm definition, firing a note and a pulse on every
// step. Each tick schedules the next one from the tempo current at that tick,
// so tempo changes apply going forward only.
type Sequencer struct {
	def      config.RhythmDefinition
	noteSecs float64

	clock  Clock
	sched  Scheduler
	voices Voices
	pulses PulseSink
	log    *logger.Logger

	step    int
	handle  schedule.Handle
	running bool
	fired   uint64
	skipped uint64
}

// NewSequencer validates def and returns a stopped sequencer.
func NewSequencer(def config.RhythmDefinition, noteSecs float64, clock Clock, sched Scheduler, voices Voices, pulses PulseSink, log *logger.Logger) (*Sequencer, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &Sequencer{
		def:      def,
		noteSecs: noteSecs,
		clock:    clock,
		sched:    sched,
		voices:   voices,
		pulses:   pulses,
		log:      log,
	}, nil
}

// Start schedules the first step at time at. Starting a running sequencer is
// a no-op.
func (s *Sequencer) Start(at float64) {
	if s.running {
		return
	}
	s.running = true
	s.step = 0
	s.handle = s.sched.ScheduleAt(at, s.tick)
	s.log.Debugf("sequencer %s started at %.3f", s.def.ID, at)
}

// Stop cancels future steps.
func (s *Sequencer) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.sched.Cancel(s.handle)
	s.log.Debugf("sequencer %s stopped after %d steps", s.def.ID, s.fired)
}

func (s *Sequencer) tick(at float64) {
	s.voices.Trigger(s.def.ID, s.def.Frequency, s.noteSecs, at)
	s.pulses.AddPulse(s.def.ID, s.clock.Now(), s.def.DecaySeconds)
	s.fired++
	s.step = (s.step + 1) % s.def.BeatCount

	if !s.running {
		return
	}
	period := transport.StepPeriod(s.clock.BPM(), s.def.Subdivision)
	next := at + period
	// A host stall leaves many steps overdue. Fire once, then re-anchor on
	// the first grid point after now so the phase is kept.
	if lag := s.clock.Now() - at; lag > period {
		missed := int(math.Floor(lag / period))
		next = at + float64(missed+1)*period
		s.step = (s.step + missed) % s.def.BeatCount
		s.skipped += uint64(missed)
		s.log.Warnf("sequencer %s: %.3fs behind, skipped %d steps", s.def.ID, lag, missed)
	}
	s.handle = s.sched.ScheduleAt(next, s.tick)
}

// Skipped counts steps dropped after a stall.
func (s *Sequencer) Skipped() uint64 { return s.skipped }

func (s *Sequencer) ID() string { return s.def.ID }

// Step is the index of the next step to fire, in [0, BeatCount).
func (s *Sequencer) Step() int { return s.step }

func (s *Sequencer) Running() bool { return s.running }

// Fired counts steps fired since construction.
func (s *Sequencer) Fired() uint64 { return s.fired }

// LoopSeconds is the length of one full cycle at bpm.
func (s *Sequencer) LoopSeconds(bpm float64) float64 {
	return float64(s.def.BeatCount) * transport.StepPeriod(bpm, s.def.Subdivision)
}
