package render

import (
	"math"

	"github.com/guidoenr/spectra/internal/canvas"
)

const (
	circularBars        = 120
	circularInnerRatio  = 0.15
	circularMaxBarRatio = 0.2
	circularDiscGain    = 0.8
	barsHeightRatio     = 0.4
)

// circularGeometry returns the inner radius and maxBarHeight for a surface.
func circularGeometry(w, h float64) (inner, maxBar float64) {
	m := math.Min(w, h)
	return m * circularInnerRatio, m * circularMaxBarRatio
}

// discScale is the bass pulse of the center disc. The bass term saturates at 1.
func discScale(bass float64) float64 {
	return 1 + math.Min(bass, 1)*circularDiscGain
}

// circularBarLengths samples the spectrum at stride N/120.
func circularBarLengths(freq []byte, maxBar float64, dst []float64) []float64 {
	dst = dst[:0]
	stride := len(freq) / circularBars
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < circularBars; i++ {
		var v byte
		if idx := i * stride; idx < len(freq) {
			v = freq[idx]
		}
		dst = append(dst, normSquared(v)*maxBar*1.5)
	}
	return dst
}

func (e *Engine) drawCircular(fc *frameContext) {
	fillBackground(fc, 6, 6, 14, 1)

	inner, maxBar := circularGeometry(fc.w, fc.h)
	disc := inner * discScale(fc.m.Bass)
	core := hsla(fc.hue, 0.8, 0.6, 0.9)
	fc.s.FillCircle(fc.cx, fc.cy, disc, canvas.NewRadial(fc.cx, fc.cy, disc,
		canvas.Stop{Offset: 0, Color: core},
		canvas.Stop{Offset: 0.6, Color: hsla(fc.hue, 0.8, 0.5, 0.35)},
		canvas.Stop{Offset: 1, Color: transparent(core)},
	))

	e.lengths = circularBarLengths(fc.freq, maxBar, e.lengths)
	width := math.Max(2, 2*math.Pi*inner/circularBars*0.6)
	for i, length := range e.lengths {
		if length <= 0 {
			continue
		}
		angle := float64(i)/circularBars*2*math.Pi - math.Pi/2
		x0, y0 := polar(fc.cx, fc.cy, inner, angle)
		x1, y1 := polar(fc.cx, fc.cy, inner+length, angle)
		hue := fc.hue + float64(i)/circularBars*360
		fc.s.StrokeLine(x0, y0, x1, y1, width, hsla(hue, 0.85, 0.6, 1))
	}
}

// barHeight is the half-height of a mirrored bar.
func barHeight(v byte, h float64) float64 {
	return normSquared(v) * h * barsHeightRatio
}

func (e *Engine) drawBars(fc *frameContext) {
	fillBackground(fc, 8, 8, 12, 1)

	n := len(fc.freq)
	if n == 0 {
		return
	}
	barW := fc.w / float64(n)
	for i, v := range fc.freq {
		half := barHeight(v, fc.h)
		if half <= 0 {
			continue
		}
		hue := fc.hue + float64(i)/float64(n)*360
		x := float64(i) * barW
		fc.s.FillRect(x, fc.cy-half, math.Max(barW*0.8, 1), half*2, canvas.Solid(hsla(hue, 0.8, 0.55, 1)))
	}
}

// wavePoints maps time-domain bytes to a polyline across the surface.
func wavePoints(wave []byte, w, h float64, dst []canvas.Point) []canvas.Point {
	dst = dst[:0]
	n := len(wave)
	if n < 2 {
		return dst
	}
	step := w / float64(n-1)
	cy := h / 2
	for i, s := range wave {
		y := cy + (float64(s)/128-1)*h/2
		dst = append(dst, canvas.Point{X: float64(i) * step, Y: y})
	}
	return dst
}

func (e *Engine) drawWave(fc *frameContext) {
	fillBackground(fc, 6, 8, 12, 1)

	e.points = wavePoints(fc.wave, fc.w, fc.h, e.points)
	if len(e.points) < 2 {
		return
	}
	fc.s.StrokePolyline(e.points, 2, hsla(fc.hue, 0.8, 0.6, 1))
}
