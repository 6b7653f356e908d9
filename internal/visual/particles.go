package visual

import "math"

// Particle drifts from a canvas edge toward the centre.
type Particle struct {
	ID      uint64
	X, Y    float64
	Size    float64
	Speed   float64
	Opacity float64
	Created float64
}

const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// SpawnParticles tops the population up to floor(area*density), capped at
// the maximum particle count. It returns the number spawned.
func (m *Manager) SpawnParticles(now, width, height float64) int {
	target := int(math.Floor(width * height * m.params.ParticleDensity))
	if target > m.params.MaxParticles {
		target = m.params.MaxParticles
	}
	n := target - len(m.particles)
	for i := 0; i < n; i++ {
		x, y := m.edgePoint(width, height)
		m.particles = append(m.particles, Particle{
			ID:      m.newID(),
			X:       x,
			Y:       y,
			Size:    m.uniform(m.params.MinSize, m.params.MaxSize),
			Speed:   m.uniform(m.params.MinSpeed, m.params.MaxSpeed),
			Opacity: 1,
			Created: now,
		})
	}
	if n < 0 {
		return 0
	}
	return n
}

func (m *Manager) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}

func (m *Manager) edgePoint(width, height float64) (float64, float64) {
	switch m.rng.Intn(4) {
	case edgeTop:
		return m.rng.Float64() * width, 0
	case edgeRight:
		return width, m.rng.Float64() * height
	case edgeBottom:
		return m.rng.Float64() * width, height
	default:
		return 0, m.rng.Float64() * height
	}
}

// updateParticles moves each particle speed units toward the centre, fades it
// inside the fade radius, and drops it once it reaches the centre or fades out.
func (m *Manager) updateParticles(width, height float64) {
	cx, cy := width/2, height/2
	fade := math.Min(width, height) * m.params.FadeRatio

	live := m.particles[:0]
	for _, p := range m.particles {
		dx, dy := cx-p.X, cy-p.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}
		if dist <= p.Speed {
			p.X, p.Y = cx, cy
			dist = 0
		} else {
			p.X += dx / dist * p.Speed
			p.Y += dy / dist * p.Speed
			dist -= p.Speed
		}

		p.Opacity = 1
		if dist < fade {
			p.Opacity = dist / fade
		}
		if dist < p.Size || p.Opacity <= m.params.MinOpacity {
			continue
		}
		live = append(live, p)
	}
	m.particles = live
	if len(m.particles) > m.params.MaxParticles {
		m.particles = m.particles[:m.params.MaxParticles]
	}
}

// Particles returns the live particles after the last update.
func (m *Manager) Particles() []Particle { return m.particles }
