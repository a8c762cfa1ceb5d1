package render

import (
	"math"

	"github.com/guidoenr/spectra/internal/canvas"
)

type cloud struct {
	x, y, r float64
	hue     float64
	alpha   float64
}

// nebulaClouds places the bass center cloud and the mid and high orbiting
// clouds. The orbit rates are pairwise incommensurate so the paths never
// line up.
func nebulaClouds(fc *frameContext) [3]cloud {
	m := math.Min(fc.w, fc.h)
	t := fc.elapsed
	return [3]cloud{
		{
			x: fc.cx, y: fc.cy,
			r:     m * 0.35 * (1 + fc.m.Bass*0.6),
			hue:   fc.hue,
			alpha: 0.55,
		},
		{
			x:     fc.cx + math.Cos(t*0.31)*fc.w*0.25,
			y:     fc.cy + math.Sin(t*0.23)*fc.h*0.2,
			r:     m * 0.3 * (1 + fc.m.Mid*1.2),
			hue:   fc.hue + 120,
			alpha: 0.45,
		},
		{
			x:     fc.cx + math.Sin(t*0.17)*fc.w*0.3,
			y:     fc.cy + math.Cos(t*0.41)*fc.h*0.25,
			r:     m * 0.28 * (1 + fc.m.High*1.5),
			hue:   fc.hue + 240,
			alpha: 0.45,
		},
	}
}

func (e *Engine) drawNebula(fc *frameContext) {
	fillBackground(fc, 3, 2, 10, 1)

	fc.s.SetBlend(canvas.BlendScreen)
	for _, c := range nebulaClouds(fc) {
		center := hsla(c.hue, 0.7, 0.5, c.alpha)
		fc.s.FillCircle(c.x, c.y, c.r, canvas.NewRadial(c.x, c.y, c.r,
			canvas.Stop{Offset: 0, Color: center},
			canvas.Stop{Offset: 0.5, Color: hsla(c.hue, 0.6, 0.35, c.alpha*0.4)},
			canvas.Stop{Offset: 1, Color: transparent(center)},
		))
	}
	fc.s.SetBlend(canvas.BlendNormal)

	stars := e.fields.Nebula(fc.bounds)
	stars.Advance(fc.elapsed, fc.m.High)
	for _, s := range stars.Stars {
		alpha := clamp01(s.Alpha * s.Twinkle * stars.Boost)
		if alpha <= 0 {
			continue
		}
		r := s.Size * stars.Boost * 3
		glow := hsla(fc.hue+200, 0.3, 0.92, alpha)
		fc.s.FillCircle(s.X, s.Y, r, canvas.NewRadial(s.X, s.Y, r,
			canvas.Stop{Offset: 0, Color: glow},
			canvas.Stop{Offset: 0.35, Color: hsla(fc.hue+200, 0.4, 0.8, alpha*0.5)},
			canvas.Stop{Offset: 1, Color: transparent(glow)},
		))
	}
}
