package render

import (
	"math"

	"github.com/guidoenr/spectra/internal/canvas"
)

const (
	inkSlots       = 120
	inkSpectrum    = 0.82
	inkSpinBase    = 0.002
	inkSpinPerBass = 0.005
)

// inkBar is one angular slot: Out extends away from the pool, In points
// back toward it.
type inkBar struct {
	Out, In float64
}

type inkGeometry struct {
	pool, gap, start, maxInk float64
}

func radialInkGeometry(w, h, bass float64) inkGeometry {
	m := math.Min(w, h)
	pool := m * 0.06 * (1 + bass*0.6)
	gap := math.Max(4, m*0.01)
	return inkGeometry{
		pool:   pool,
		gap:    gap,
		start:  pool + gap + m*0.08,
		maxInk: m * 0.32,
	}
}

// inkStride spreads the slots over the lower 82% of the spectrum.
func inkStride(n int) int {
	stride := int(float64(n) * inkSpectrum / inkSlots)
	if stride < 1 {
		stride = 1
	}
	return stride
}

// inkBars computes slot lengths. Inward bars never reach into the pool.
func inkBars(freq []byte, g inkGeometry, dst []inkBar) []inkBar {
	dst = dst[:0]
	stride := inkStride(len(freq))
	room := math.Max(0, g.start-(g.pool+g.gap))
	for i := 0; i < inkSlots; i++ {
		var v byte
		if idx := i * stride; idx < len(freq) {
			v = freq[idx]
		}
		out := normSquared(v) * g.maxInk
		dst = append(dst, inkBar{Out: out, In: math.Max(0, math.Min(out, room))})
	}
	return dst
}

// inkSpin is the per-frame rotation increment.
func inkSpin(bass float64) float64 {
	return inkSpinBase + bass*inkSpinPerBass
}

func (e *Engine) drawRadialInk(fc *frameContext) {
	fillBackground(fc, 244, 239, 228, 1)

	shards := e.fields.Shards(fc.bounds)
	shards.Advance(fc.bounds)
	for _, sh := range shards.Items {
		pts, _, _, _ := shardPolygon(sh, 0, 0)
		c := rgba(60, 52, 40, sh.Opacity)
		if sh.Light {
			c = rgba(255, 255, 255, sh.Opacity*2)
		}
		fc.s.FillPolygon(pts, canvas.Solid(c))
	}
	if shards.Noise != nil {
		fc.s.DrawImage(shards.Noise, 0, 0)
	}

	for i, sh := range shards.Items {
		if !sh.Highlight {
			continue
		}
		level := fc.m.Bass
		if i%2 == 1 {
			level = fc.m.Mid
		}
		alpha := math.Min(level*0.6, 0.8)
		if alpha <= 0 {
			continue
		}
		pts, gx, gy, reach := shardPolygon(sh, 0, 0)
		glow := hsla(fc.hue+20, 0.9, 0.7, alpha)
		fc.s.FillPolygon(pts, canvas.NewRadial(gx, gy, reach*1.5,
			canvas.Stop{Offset: 0, Color: glow},
			canvas.Stop{Offset: 1, Color: transparent(glow)},
		))
	}

	e.inkRotation = math.Mod(e.inkRotation+inkSpin(fc.m.Bass), 2*math.Pi)
	g := radialInkGeometry(fc.w, fc.h, fc.m.Bass)

	fc.s.SetBlend(canvas.BlendMultiply)
	poolHue := WrapHue(fc.hue + fc.m.Bass*40)
	ink := hsla(poolHue, 0.65, 0.4, 0.85)
	fc.s.FillCircle(fc.cx, fc.cy, g.pool, canvas.NewRadial(fc.cx, fc.cy, g.pool,
		canvas.Stop{Offset: 0, Color: ink},
		canvas.Stop{Offset: 0.7, Color: hsla(poolHue, 0.6, 0.5, 0.5)},
		canvas.Stop{Offset: 1, Color: transparent(ink)},
	))

	e.inkBars = inkBars(fc.freq, g, e.inkBars)
	width := math.Max(1.5, 2*math.Pi*g.start/inkSlots*0.45)
	for i, bar := range e.inkBars {
		if bar.Out <= 0 {
			continue
		}
		angle := e.inkRotation + float64(i)/inkSlots*2*math.Pi
		c := hsla(fc.hue+float64(i)/inkSlots*360, 0.7, 0.45, 0.75)
		x0, y0 := polar(fc.cx, fc.cy, g.start, angle)
		x1, y1 := polar(fc.cx, fc.cy, g.start+bar.Out, angle)
		fc.s.StrokeLine(x0, y0, x1, y1, width, c)
		if bar.In > 0 {
			x2, y2 := polar(fc.cx, fc.cy, g.start-bar.In, angle)
			fc.s.StrokeLine(x0, y0, x2, y2, width, c)
		}
	}
	fc.s.SetBlend(canvas.BlendNormal)
}
