package engine

import (
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/transport"
)

type recordingCanvas struct {
	clears int
	lines  int
	rings  int
	discs  int
}

func (c *recordingCanvas) Clear(color.NRGBA)                                   { c.clears++ }
func (c *recordingCanvas) Line(x0, y0, x1, y1, width float64, _ color.NRGBA) { c.lines++ }
func (c *recordingCanvas) Ring(cx, cy, r, width float64, _ color.NRGBA)      { c.rings++ }
func (c *recordingCanvas) Disc(cx, cy, r float64, _ color.NRGBA)             { c.discs++ }

type countingSink struct {
	notes   int
	streams []beep.Streamer
}

func (s *countingSink) Play(st beep.Streamer) {
	s.notes++
	s.streams = append(s.streams, st)
}

func newTestEngine(t *testing.T) (*Engine, *transport.MockTimeProvider, *countingSink) {
	t.Helper()
	mock := transport.NewMockTimeProvider(time.Unix(1700000000, 0))
	sink := &countingSink{}
	e, err := New(Options{
		Time: mock,
		Rand: rand.New(rand.NewSource(1)),
		Sink: sink,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, mock, sink
}

// TestStartFiresEveryRhythm verifies the first step of each rhythm
func TestStartFiresEveryRhythm(t *testing.T) {
	e, _, sink := newTestEngine(t)

	e.Start()
	if n := e.Tick(); n != len(config.Rhythms()) {
		t.Fatalf("Expected %d ticks at start, got %d", len(config.Rhythms()), n)
	}
	if sink.notes != 3 {
		t.Errorf("Expected 3 notes, got %d", sink.notes)
	}
	if s := e.Stats(); s.Pulses != 3 {
		t.Errorf("Expected 3 pulses, got %d", s.Pulses)
	}
}

// TestTickAfterStallFiresOncePerRhythm verifies a stalled host does not
// release every missed step at once
func TestTickAfterStallFiresOncePerRhythm(t *testing.T) {
	e, mock, sink := newTestEngine(t)
	e.Start()
	e.Tick()

	mock.Advance(30 * time.Second)
	if n := e.Tick(); n != len(config.Rhythms()) {
		t.Fatalf("Expected one tick per rhythm after a stall, got %d", n)
	}
	if sink.notes != 6 {
		t.Errorf("Expected 6 notes in total, got %d", sink.notes)
	}
	if s := e.Stats(); s.Pulses != 6 {
		t.Errorf("Expected 6 pulses, got %d", s.Pulses)
	}
}

// TestTickLooksAhead verifies a step just ahead of the clock plays after a
// silent lead-in up to its exact time
func TestTickLooksAhead(t *testing.T) {
	e, mock, sink := newTestEngine(t)
	e.Start()
	e.Tick()

	// rhythm3 steps every 0.375s at 80 BPM
	mock.Advance(365 * time.Millisecond)
	if n := e.Tick(); n != 1 {
		t.Fatalf("Expected the 0.375s step to run early, got %d ticks", n)
	}
	st := sink.streams[len(sink.streams)-1]

	lead := make([][2]float64, 441)
	if n, _ := st.Stream(lead); n != len(lead) {
		t.Fatalf("Expected %d lead-in samples, got %d", len(lead), n)
	}
	for i, v := range lead {
		if v[0] != 0 || v[1] != 0 {
			t.Fatalf("Expected silence before the step, sample %d is %v", i, v)
		}
	}

	body := make([][2]float64, 441)
	st.Stream(body)
	sounding := false
	for _, v := range body {
		if v[0] != 0 {
			sounding = true
			break
		}
	}
	if !sounding {
		t.Error("Expected the note to sound after the lead-in")
	}
}

// TestElapsedIsPlayTime verifies elapsed time counts from the last start
func TestElapsedIsPlayTime(t *testing.T) {
	e, mock, _ := newTestEngine(t)

	mock.Advance(10 * time.Second)
	if got := e.Stats().Elapsed; got != 0 {
		t.Errorf("Expected no play time before start, got %v", got)
	}

	e.Start()
	mock.Advance(2 * time.Second)
	if got := e.Stats().Elapsed; got != 2*time.Second {
		t.Errorf("Expected 2s of play, got %v", got)
	}

	e.Stop()
	mock.Advance(5 * time.Second)
	if got := e.Stats().Elapsed; got != 2*time.Second {
		t.Errorf("Expected play time to hold at 2s while stopped, got %v", got)
	}

	e.Start()
	mock.Advance(time.Second)
	if got := e.Stats().Elapsed; got != time.Second {
		t.Errorf("Expected play time to restart, got %v", got)
	}
}

// TestFrameSkippedWithoutTarget verifies skipped frames leave entities alone
func TestFrameSkippedWithoutTarget(t *testing.T) {
	e, mock, _ := newTestEngine(t)
	e.Start()
	e.Tick()

	mock.Advance(5 * time.Second)
	if e.Frame(nil, 600, 600) {
		t.Fatal("Expected frame to be skipped")
	}
	s := e.Stats()
	if s.Pulses != 3 || s.Particles != 0 {
		t.Errorf("Expected untouched entities, got pulses=%d particles=%d", s.Pulses, s.Particles)
	}
	if s.Skipped != 1 || s.Frames != 0 {
		t.Errorf("Expected 1 skipped and 0 rendered, got %d/%d", s.Skipped, s.Frames)
	}
}

// TestFrameDrawsInOrder verifies a frame draws background, grid and entities
func TestFrameDrawsInOrder(t *testing.T) {
	e, mock, _ := newTestEngine(t)
	e.Start()
	e.Tick()
	mock.Advance(100 * time.Millisecond)

	c := &recordingCanvas{}
	if !e.Frame(c, 600, 600) {
		t.Fatal("Expected frame to render")
	}
	if c.clears != 1 {
		t.Errorf("Expected one clear, got %d", c.clears)
	}
	if want := 2 * (config.GridLineCount + 1); c.lines != want {
		t.Errorf("Expected %d grid lines, got %d", want, c.lines)
	}
	if c.rings != 6 {
		t.Errorf("Expected a ring and a blur ring per pulse, got %d", c.rings)
	}
	if _, _, n := e.entities.Counts(); c.discs != n || n == 0 {
		t.Errorf("Expected one disc per particle, got %d discs for %d particles", c.discs, n)
	}
}

// TestEntitiesDecayAfterStop verifies the clock keeps running while stopped
func TestEntitiesDecayAfterStop(t *testing.T) {
	e, mock, _ := newTestEngine(t)
	e.Start()
	e.Tick()
	e.Stop()

	mock.Advance(2 * time.Second)
	if n := e.Tick(); n != 0 {
		t.Errorf("Expected no ticks after stop, got %d", n)
	}
	e.Frame(&recordingCanvas{}, 600, 600)
	if s := e.Stats(); s.Pulses != 0 {
		t.Errorf("Expected pulses to have decayed after stop, got %d", s.Pulses)
	}
}

// TestTempoModulatedOnlyWhileRunning verifies tempo holds while stopped
func TestTempoModulatedOnlyWhileRunning(t *testing.T) {
	e, mock, _ := newTestEngine(t)
	c := &recordingCanvas{}

	mock.Advance(10 * time.Second)
	e.Frame(c, 600, 600)
	if bpm := e.Stats().BPM; bpm != config.MidpointBPM {
		t.Errorf("Expected initial tempo while stopped, got %f", bpm)
	}

	e.Start()
	for i := 0; i < 100; i++ {
		mock.Advance(250 * time.Millisecond)
		e.Tick()
		e.Frame(c, 600, 600)
		bpm := e.Stats().BPM
		if bpm < config.MinBPM || bpm > config.MaxBPM {
			t.Fatalf("Tempo out of range: %f", bpm)
		}
	}
	held := e.Stats().BPM
	if held == config.MidpointBPM {
		t.Error("Expected tempo to have been modulated")
	}

	e.Stop()
	mock.Advance(30 * time.Second)
	e.Frame(c, 600, 600)
	if e.Stats().BPM != held {
		t.Errorf("Expected tempo to hold at %f, got %f", held, e.Stats().BPM)
	}
}

// TestPointerOnlyWhileRunning verifies pointer gating and ripples
func TestPointerOnlyWhileRunning(t *testing.T) {
	e, mock, sink := newTestEngine(t)

	if e.Pointer(100, 100, 600, 600) {
		t.Error("Expected pointer to be ignored while stopped")
	}

	e.Toggle()
	e.Tick()
	before := sink.notes
	mock.Advance(time.Second)
	if !e.Pointer(100, 100, 600, 600) {
		t.Fatal("Expected pointer to trigger while running")
	}
	if e.Pointer(120, 100, 600, 600) {
		t.Error("Expected second pointer event in the window to be dropped")
	}
	if e.Pointer(-5, 100, 600, 600) {
		t.Error("Expected pointer outside the canvas to be ignored")
	}
	if sink.notes != before+1 {
		t.Errorf("Expected exactly one pointer note, got %d", sink.notes-before)
	}
	if s := e.Stats(); s.Ripples != 1 {
		t.Errorf("Expected 1 ripple, got %d", s.Ripples)
	}
}

// TestCancel verifies cancellation stops the transport
func TestCancel(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.Start()
	e.Cancel()
	if !e.Cancelled() || e.Running() {
		t.Error("Expected cancelled, stopped engine")
	}
}

func TestHsvToRgb(t *testing.T) {
	r, g, b := hsvToRgb(0, 1, 1)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("Expected red, got %d,%d,%d", r, g, b)
	}
	r, g, b = hsvToRgb(480, 1, 1)
	if r != 0 || g != 255 || b != 0 {
		t.Errorf("Expected hue to wrap to green, got %d,%d,%d", r, g, b)
	}
	if a := withAlpha(color.NRGBA{}, 2).A; a != 255 {
		t.Errorf("Expected clamped alpha 255, got %d", a)
	}
}
