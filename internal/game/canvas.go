package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenCanvas draws engine frames onto an ebiten image.
type screenCanvas struct {
	dst *ebiten.Image
}

func (c screenCanvas) Clear(clr color.NRGBA) {
	c.dst.Fill(clr)
}

func (c screenCanvas) Line(x0, y0, x1, y1, width float64, clr color.NRGBA) {
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, false)
}

func (c screenCanvas) Ring(cx, cy, r, width float64, clr color.NRGBA) {
	if r <= 0 {
		return
	}
	vector.StrokeCircle(c.dst, float32(cx), float32(cy), float32(r), float32(width), clr, true)
}

func (c screenCanvas) Disc(cx, cy, r float64, clr color.NRGBA) {
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(r), clr, true)
}
