package render

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	hueWobbleDegrees = 54.0
	hueWobbleRate    = 0.5
)

// BaseHue is the frame's seed hue: the user shift plus a slow ±54° wobble,
// wrapped into [0,360).
func BaseHue(shift int, elapsed float64) float64 {
	return WrapHue(float64(shift) + hueWobbleDegrees*math.Sin(hueWobbleRate*elapsed))
}

// WrapHue normalizes any hue into [0,360).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

// hsla builds a straight-alpha color; s, l and a are in [0,1].
func hsla(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(WrapHue(h), clamp01(s), clamp01(l)).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(a)}
}

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: alphaByte(a)}
}

func transparent(c color.NRGBA) color.NRGBA {
	c.A = 0
	return c
}

func alphaByte(a float64) uint8 {
	return uint8(math.Round(clamp01(a) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
