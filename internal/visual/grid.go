package visual

import (
	"math"

	"github.com/iburimskiy/polyrhythm/internal/config"
)

// Grid is the faint background lattice. Its opacity and offset oscillate with
// elapsed time regardless of run state.
type Grid struct {
	Lines          int
	BaseOpacity    float64
	PulseAmplitude float64
	PulseSpeed     float64
	Wobble         float64
	WobbleSpeed    float64
	WobbleRatio    float64
}

func DefaultGrid() Grid {
	return Grid{
		Lines:          config.GridLineCount,
		BaseOpacity:    config.GridBaseOpacity,
		PulseAmplitude: config.GridPulseAmplitude,
		PulseSpeed:     config.GridPulseSpeed,
		Wobble:         config.GridWobbleAmount,
		WobbleSpeed:    config.GridWobbleSpeed,
		WobbleRatio:    config.GridWobbleRatio,
	}
}

type GridState struct {
	Opacity float64
	OffsetX float64
	OffsetY float64
	Spacing float64
}

// At returns the grid state at time now for a canvas of the given size.
func (g Grid) At(now, size float64) GridState {
	s := GridState{
		Opacity: g.BaseOpacity + math.Sin(now*g.PulseSpeed)*g.PulseAmplitude,
		OffsetX: math.Sin(now*g.WobbleSpeed) * g.Wobble,
		OffsetY: math.Cos(now*g.WobbleSpeed*g.WobbleRatio) * g.Wobble,
	}
	if g.Lines > 0 {
		s.Spacing = size / float64(g.Lines)
	}
	return s
}
