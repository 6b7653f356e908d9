// Package visual owns the transient entities drawn each frame: central
// pulses fired by the rhythms, ripples left by the pointer, and particles
// drifting from the canvas edges toward the centre.
package visual

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/iburimskiy/polyrhythm/internal/config"
)

// Params holds the fixed visual constants.
type Params struct {
	PulseRadiusRatio float64
	PulseMaxBlur     float64
	RippleMaxRadius  float64

	ParticleDensity float64
	MaxParticles    int
	MinSize         float64
	MaxSize         float64
	MinSpeed        float64
	MaxSpeed        float64
	FadeRatio       float64
	MinOpacity      float64
}

func DefaultParams() Params {
	return Params{
		PulseRadiusRatio: config.PulseRadiusRatio,
		PulseMaxBlur:     config.PulseMaxBlur,
		RippleMaxRadius:  config.RippleMaxRadius,
		ParticleDensity:  config.ParticleDensity,
		MaxParticles:     config.MaxParticleCount,
		MinSize:          config.ParticleMinSize,
		MaxSize:          config.ParticleMaxSize,
		MinSpeed:         config.ParticleMinSpeed,
		MaxSpeed:         config.ParticleMaxSpeed,
		FadeRatio:        config.ParticleFadeRate,
		MinOpacity:       config.ParticleMinAlpha,
	}
}

type Pulse struct {
	ID       uint64
	RhythmID string
	Start    float64
	Decay    float64
}

type Ripple struct {
	ID    uint64
	X, Y  float64
	Start float64
	Decay float64
}

// PulseView is the draw state of a live pulse for the current frame.
type PulseView struct {
	ID       uint64
	RhythmID string
	T        float64
	Radius   float64
	Opacity  float64
	Blur     float64
}

// RippleView is the draw state of a live ripple for the current frame.
type RippleView struct {
	ID      uint64
	X, Y    float64
	T       float64
	Radius  float64
	Opacity float64
}

// Manager exclusively owns the entity collections and the id counter shared
// by every entity kind.
type Manager struct {
	params Params
	rng    *rand.Rand
	nextID uint64

	pulses    []Pulse
	ripples   []Ripple
	particles []Particle

	pulseViews  []PulseView
	rippleViews []RippleView

	expired uint64
}

// NewManager creates an empty manager. A nil rng uses a time-seeded source.
func NewManager(params Params, rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Manager{params: params, rng: rng}
}

func (m *Manager) newID() uint64 {
	m.nextID++
	return m.nextID
}

// AddPulse records a central pulse for a rhythm tick.
func (m *Manager) AddPulse(rhythmID string, start, decay float64) uint64 {
	mustPositive(decay)
	id := m.newID()
	m.pulses = append(m.pulses, Pulse{ID: id, RhythmID: rhythmID, Start: start, Decay: decay})
	return id
}

// AddRipple records a ripple at a pointer position.
func (m *Manager) AddRipple(x, y, start, decay float64) uint64 {
	mustPositive(decay)
	id := m.newID()
	m.ripples = append(m.ripples, Ripple{ID: id, X: x, Y: y, Start: start, Decay: decay})
	return id
}

func mustPositive(decay float64) {
	if !(decay > 0) {
		panic(fmt.Sprintf("visual: non-positive decay %g", decay))
	}
}

// NormalizedTime is the fractional age (now-start)/decay. Ages before the
// start read as 0.
func NormalizedTime(now, start, decay float64) float64 {
	return math.Max(0, (now-start)/decay)
}

// Advance ages every entity to now on a width x height canvas: expired pulses
// and ripples are removed, the rest get fresh draw state, and particles move
// one step toward the centre.
func (m *Manager) Advance(now, width, height float64) {
	pulseRadius := m.params.PulseRadiusRatio * math.Min(width, height)

	m.pulseViews = m.pulseViews[:0]
	active := m.pulses[:0]
	for _, p := range m.pulses {
		t := NormalizedTime(now, p.Start, p.Decay)
		if t >= 1 {
			m.expired++
			continue
		}
		active = append(active, p)
		m.pulseViews = append(m.pulseViews, PulseView{
			ID:       p.ID,
			RhythmID: p.RhythmID,
			T:        t,
			Radius:   pulseRadius * t,
			Opacity:  1 - t,
			Blur:     m.params.PulseMaxBlur * 4 * t * (1 - t),
		})
	}
	m.pulses = active

	m.rippleViews = m.rippleViews[:0]
	live := m.ripples[:0]
	for _, r := range m.ripples {
		t := NormalizedTime(now, r.Start, r.Decay)
		if t >= 1 {
			m.expired++
			continue
		}
		live = append(live, r)
		m.rippleViews = append(m.rippleViews, RippleView{
			ID:      r.ID,
			X:       r.X,
			Y:       r.Y,
			T:       t,
			Radius:  m.params.RippleMaxRadius * t,
			Opacity: 1 - t,
		})
	}
	m.ripples = live

	m.updateParticles(width, height)
}

// Pulses returns the draw state computed by the last Advance. The slice is
// reused by the next Advance.
func (m *Manager) Pulses() []PulseView { return m.pulseViews }

// Ripples returns the draw state computed by the last Advance.
func (m *Manager) Ripples() []RippleView { return m.rippleViews }

// Counts reports live pulses, ripples and particles.
func (m *Manager) Counts() (pulses, ripples, particles int) {
	return len(m.pulses), len(m.ripples), len(m.particles)
}

// Expired counts pulses and ripples removed after their decay window.
func (m *Manager) Expired() uint64 { return m.expired }
