// Package engine composes the clock, rhythm sequencers, pointer trigger,
// voice bank and visual entities into the per-frame render loop.
//
// All methods must be called from a single goroutine. The host delivers two
// callback streams through it: Tick drains scheduled rhythm triggers and
// Frame renders. Each runs to completion, so no locking is needed.
package engine

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/polyrhythm/internal/audio"
	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/logger"
	"github.com/iburimskiy/polyrhythm/internal/rhythm"
	"github.com/iburimskiy/polyrhythm/internal/schedule"
	"github.com/iburimskiy/polyrhythm/internal/transport"
	"github.com/iburimskiy/polyrhythm/internal/visual"
)

var (
	backgroundColor = color.NRGBA{R: 8, G: 9, B: 16, A: 255}
	gridColor       = color.NRGBA{R: 255, G: 255, B: 255}
	rippleColor     = color.NRGBA{R: 255, G: 255, B: 255}
	particleColor   = color.NRGBA{R: 170, G: 200, B: 255}
)

// Options configures an Engine. Zero values pick defaults.
type Options struct {
	Logger     *logger.Logger
	Time       transport.TimeProvider
	Rand       *rand.Rand
	Sink       audio.Sink
	SampleRate beep.SampleRate
}

// Engine is the synchronization core of the installation.
type Engine struct {
	log *logger.Logger

	clock    *transport.Clock
	tempo    transport.TempoModulator
	queue    *schedule.Queue
	bank     *audio.Bank
	seqs     []*rhythm.Sequencer
	pointer  *rhythm.PointerTrigger
	entities *visual.Manager
	grid     visual.Grid
	colors   map[string]color.NRGBA

	startedAt float64
	played    float64

	frames    uint64
	skipped   uint64
	cancelled bool
}

// Stats is a snapshot for the status display.
type Stats struct {
	Running   bool
	BPM       float64
	Elapsed   time.Duration // play time of the current or last run
	Pulses    int
	Ripples   int
	Particles int
	Frames    uint64
	Skipped   uint64
}

// New validates the built-in configuration and wires every component.
func New(opts Options) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = beep.SampleRate(config.SampleRate)
	}
	if opts.Sink == nil {
		opts.Sink = audio.NewBus(nil, 1, config.VisualRingSize)
	}

	e := &Engine{
		log:   opts.Logger,
		clock: transport.NewClock(opts.Time, config.MidpointBPM),
		tempo: transport.TempoModulator{
			Midpoint:  config.MidpointBPM,
			HalfRange: config.TempoHalfRange,
			Speed:     config.TempoModSpeed,
		},
		queue:    schedule.NewQueue(),
		entities: visual.NewManager(visual.DefaultParams(), opts.Rand),
		grid:     visual.DefaultGrid(),
		colors:   make(map[string]color.NRGBA),
	}

	defs := config.Rhythms()
	pdef := config.PointerRhythm()
	voices := make([]audio.Voice, 0, len(defs)+1)
	for i, d := range defs {
		wave, err := d.Wave()
		if err != nil {
			return nil, err
		}
		voices = append(voices, audio.Voice{ID: d.ID, Waveform: wave, Envelope: config.RhythmEnvelope(d)})
		r, g, b := hsvToRgb(200+float64(i)*360/float64(len(defs)), 0.6, 1.0)
		e.colors[d.ID] = color.NRGBA{R: r, G: g, B: b}
	}
	pwave, err := pdef.Wave()
	if err != nil {
		return nil, err
	}
	voices = append(voices, audio.Voice{ID: rhythm.PointerVoiceID, Waveform: pwave, Envelope: config.PointerEnvelope()})
	e.bank = audio.NewBank(opts.SampleRate, opts.Sink, e.clock.Now, voices...)

	for _, d := range defs {
		s, err := rhythm.NewSequencer(d, config.RhythmNoteSecs, e.clock, e.queue, e.bank, e.entities, e.log)
		if err != nil {
			return nil, err
		}
		e.seqs = append(e.seqs, s)
	}

	p, err := rhythm.NewPointerTrigger(pdef, config.Scale(), config.PointerNoteSecs,
		config.PointerWindowMs*time.Millisecond, e.bank, e.entities, e.log)
	if err != nil {
		return nil, err
	}
	e.pointer = p

	return e, nil
}

// Start enables scheduled triggers and starts every sequencer on the current
// clock time.
func (e *Engine) Start() {
	if e.clock.Running() {
		return
	}
	now := e.clock.Now()
	e.startedAt = now
	e.clock.Start()
	for _, s := range e.seqs {
		s.Start(now)
	}
	e.log.Infof("transport started at %.3fs, %.1f BPM", now, e.clock.BPM())
}

// Stop cancels future rhythm ticks. Entities keep ageing against the clock.
func (e *Engine) Stop() {
	if !e.clock.Running() {
		return
	}
	e.clock.Stop()
	e.played = e.clock.Now() - e.startedAt
	for _, s := range e.seqs {
		s.Stop()
	}
	e.log.Infof("transport stopped at %.3fs, holding %.1f BPM", e.clock.Now(), e.clock.BPM())
	for _, s := range e.seqs {
		e.log.Debugf("rhythm %s: %d ticks, %d skipped, loop %.3fs", s.ID(), s.Fired(), s.Skipped(), s.LoopSeconds(e.clock.BPM()))
	}
	triggered, dropped := e.pointer.Stats()
	e.log.Debugf("pointer: %d triggered, %d dropped, %d entities expired", triggered, dropped, e.entities.Expired())
}

// Toggle flips the run state and returns the new state.
func (e *Engine) Toggle() bool {
	if e.clock.Running() {
		e.Stop()
	} else {
		e.Start()
	}
	return e.clock.Running()
}

func (e *Engine) Running() bool { return e.clock.Running() }

// Tick runs every rhythm trigger due before the next update. Triggers ahead
// of the clock keep their exact time through a silent lead-in.
func (e *Engine) Tick() int {
	return e.queue.RunDue(e.clock.Now() + config.ScheduleLookahead)
}

// Pointer routes a pointer position on a width x height canvas. Pointer
// triggers only sound while the transport runs.
func (e *Engine) Pointer(x, y, width, height float64) bool {
	if !e.clock.Running() {
		return false
	}
	if x < 0 || y < 0 || x > width || y > height {
		return false
	}
	return e.pointer.Move(x, y, width, height, e.clock.Now())
}

// Frame renders one frame. A nil target skips the frame without touching
// any entity.
func (e *Engine) Frame(target Canvas, width, height float64) bool {
	if target == nil || width <= 0 || height <= 0 {
		e.skipped++
		return false
	}
	now := e.clock.Now()
	e.tempo.Apply(e.clock, now)

	target.Clear(backgroundColor)
	e.drawGrid(target, now, width, height)

	e.entities.SpawnParticles(now, width, height)
	e.entities.Advance(now, width, height)

	e.drawPulses(target, width, height)
	e.drawRipples(target)
	e.drawParticles(target)

	e.frames++
	return true
}

func (e *Engine) drawGrid(target Canvas, now, width, height float64) {
	g := e.grid.At(now, math.Min(width, height))
	if g.Spacing <= 0 {
		return
	}
	c := withAlpha(gridColor, g.Opacity)
	for i := 0; i <= e.grid.Lines; i++ {
		x := float64(i)*g.Spacing + g.OffsetX
		y := float64(i)*g.Spacing + g.OffsetY
		target.Line(x, 0, x, height, 1, c)
		target.Line(0, y, width, y, 1, c)
	}
}

func (e *Engine) drawPulses(target Canvas, width, height float64) {
	cx, cy := width/2, height/2
	for _, p := range e.entities.Pulses() {
		c := e.colors[p.RhythmID]
		if p.Blur > 0 {
			target.Ring(cx, cy, p.Radius, 2+p.Blur, withAlpha(c, p.Opacity*0.25))
		}
		target.Ring(cx, cy, p.Radius, 2, withAlpha(c, p.Opacity))
	}
}

func (e *Engine) drawRipples(target Canvas) {
	for _, r := range e.entities.Ripples() {
		target.Ring(r.X, r.Y, r.Radius, 1.5, withAlpha(rippleColor, r.Opacity))
	}
}

func (e *Engine) drawParticles(target Canvas) {
	for _, p := range e.entities.Particles() {
		target.Disc(p.X, p.Y, p.Size, withAlpha(particleColor, p.Opacity))
	}
}

// Cancel stops the render loop after the current frame.
func (e *Engine) Cancel() {
	e.Stop()
	e.cancelled = true
}

func (e *Engine) Cancelled() bool { return e.cancelled }

// Now is the shared clock time in seconds.
func (e *Engine) Now() float64 { return e.clock.Now() }

// playTime is the length of the current run, or of the last one while stopped.
func (e *Engine) playTime() float64 {
	if e.clock.Running() {
		return e.clock.Now() - e.startedAt
	}
	return e.played
}

func (e *Engine) Stats() Stats {
	pulses, ripples, particles := e.entities.Counts()
	return Stats{
		Running:   e.clock.Running(),
		BPM:       e.clock.BPM(),
		Elapsed:   time.Duration(e.playTime() * float64(time.Second)),
		Pulses:    pulses,
		Ripples:   ripples,
		Particles: particles,
		Frames:    e.frames,
		Skipped:   e.skipped,
	}
}
