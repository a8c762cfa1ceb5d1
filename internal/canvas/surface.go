// Package canvas defines the drawing surface the render engine targets and a
// software rasterizer implementing it.
package canvas

import (
	"image"
	"image/color"
	"math"
)

// Blend selects how source pixels combine with what is already drawn.
type Blend uint8

const (
	BlendNormal Blend = iota
	BlendMultiply
	BlendScreen
)

func (b Blend) String() string {
	switch b {
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	default:
		return "normal"
	}
}

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Surface is the drawing target for one frame. Implementations are not safe
// for concurrent use.
type Surface interface {
	Size() (width, height int)
	SetBlend(b Blend)
	FillRect(x, y, w, h float64, p Paint)
	FillCircle(cx, cy, r float64, p Paint)
	FillPolygon(pts []Point, p Paint)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
	StrokePolyline(pts []Point, width float64, c color.NRGBA)
	DrawImage(img image.Image, x, y int)
	DrawText(s string, x, y float64, c color.NRGBA)
	MeasureText(s string) (w, h float64)
}

// Paint yields the straight-alpha color at a surface position.
type Paint interface {
	ColorAt(x, y float64) color.NRGBA
}

// Solid paints a single color.
type Solid color.NRGBA

func (s Solid) ColorAt(_, _ float64) color.NRGBA { return color.NRGBA(s) }

// Stop is one color stop of a gradient, Offset in [0,1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Radial is a radial gradient centered on (CX, CY) reaching Stops[last] at R.
type Radial struct {
	CX, CY, R float64
	Stops     []Stop
}

// NewRadial builds a radial gradient from evenly ordered stops.
func NewRadial(cx, cy, r float64, stops ...Stop) *Radial {
	return &Radial{CX: cx, CY: cy, R: r, Stops: stops}
}

func (g *Radial) ColorAt(x, y float64) color.NRGBA {
	if len(g.Stops) == 0 {
		return color.NRGBA{}
	}
	t := 1.0
	if g.R > 0 {
		t = math.Hypot(x-g.CX, y-g.CY) / g.R
	}
	first := g.Stops[0]
	if t <= first.Offset {
		return first.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		next := g.Stops[i]
		if t <= next.Offset {
			prev := g.Stops[i-1]
			span := next.Offset - prev.Offset
			if span <= 0 {
				return next.Color
			}
			return lerpNRGBA(prev.Color, next.Color, (t-prev.Offset)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	l := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
