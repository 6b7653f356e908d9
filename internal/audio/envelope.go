package audio

// Envelope is an attack/decay/sustain/release amplitude shape. Times are in
// seconds, Sustain is a level in [0, 1].
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Level returns the envelope amplitude t seconds after note-on for a note
// held for gate seconds.
func (e Envelope) Level(t, gate float64) float64 {
	if t < 0 {
		return 0
	}
	if t < gate {
		return e.held(t)
	}
	if e.Release <= 0 {
		return 0
	}
	start := e.held(gate)
	rel := (t - gate) / e.Release
	if rel >= 1 {
		return 0
	}
	return start * (1 - rel)
}

// Length is the total audible duration of a note held for gate seconds.
func (e Envelope) Length(gate float64) float64 {
	if gate < 0 {
		gate = 0
	}
	return gate + e.Release
}

func (e Envelope) held(t float64) float64 {
	switch {
	case t < e.Attack:
		return t / e.Attack
	case t < e.Attack+e.Decay:
		return 1 - (t-e.Attack)/e.Decay*(1-e.Sustain)
	default:
		return e.Sustain
	}
}
