package engine

import "image/color"

// Canvas is the render target for one frame.
type Canvas interface {
	Clear(c color.NRGBA)
	Line(x0, y0, x1, y1, width float64, c color.NRGBA)
	Ring(cx, cy, r, width float64, c color.NRGBA)
	Disc(cx, cy, r float64, c color.NRGBA)
}
