package render

import (
	"math"

	"github.com/guidoenr/spectra/internal/canvas"
)

// washAlpha fades the previous frame; louder bass lets more of it through.
func washAlpha(bass float64) float64 {
	return math.Max(0.04, 0.2-bass*0.08)
}

func blobRadius(base, react float64) float64 {
	return base * (0.5 + react*2.5)
}

func (e *Engine) drawWatercolor(fc *frameContext) {
	fillBackground(fc, 250, 247, 240, washAlpha(fc.m.Bass))

	wc := e.fields.Watercolor(fc.bounds)
	wc.Advance(fc.bounds, fc.m.Bass)

	fc.s.SetBlend(canvas.BlendMultiply)
	for _, bl := range wc.Blobs {
		r := blobRadius(bl.Radius, fc.m.Level(bl.Band))
		if r <= 0 {
			continue
		}
		x := bl.X + math.Sin(fc.elapsed*0.7+bl.Phase)*8
		y := bl.Y + math.Cos(fc.elapsed*0.5+bl.Phase)*8
		hue := WrapHue(bl.Hue + fc.hue)
		center := hsla(hue, 0.75, 0.55, 0.45)
		fc.s.FillCircle(x, y, r, canvas.NewRadial(x, y, r,
			canvas.Stop{Offset: 0, Color: center},
			canvas.Stop{Offset: 0.55, Color: hsla(hue, 0.7, 0.65, 0.2)},
			canvas.Stop{Offset: 1, Color: transparent(center)},
		))
	}
	fc.s.SetBlend(canvas.BlendNormal)
}
