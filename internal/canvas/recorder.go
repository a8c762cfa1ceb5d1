package canvas

import (
	"image"
	"image/color"
)

// OpKind names a recorded draw call.
type OpKind string

const (
	OpFillRect       OpKind = "fill-rect"
	OpFillCircle     OpKind = "fill-circle"
	OpFillPolygon    OpKind = "fill-polygon"
	OpStrokeLine     OpKind = "stroke-line"
	OpStrokePolyline OpKind = "stroke-polyline"
	OpDrawImage      OpKind = "draw-image"
	OpDrawText       OpKind = "draw-text"
)

// Op is one recorded draw call with the blend mode active at the time.
type Op struct {
	Kind   OpKind
	Blend  Blend
	Points []Point
	Radius float64
	Width  float64
	Paint  Paint
	Color  color.NRGBA
	Text   string
	Image  image.Image
}

// Recorder is a Surface that records draw calls instead of rasterizing them.
type Recorder struct {
	W, H  int
	Ops   []Op
	blend Blend
}

// NewRecorder returns a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{W: width, H: height}
}

// Reset drops recorded operations.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Filter returns the recorded operations of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) SetBlend(b Blend) { r.blend = b }

func (r *Recorder) FillRect(x, y, w, h float64, p Paint) {
	r.add(Op{Kind: OpFillRect, Points: []Point{{x, y}, {x + w, y + h}}, Paint: p})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, p Paint) {
	r.add(Op{Kind: OpFillCircle, Points: []Point{{cx, cy}}, Radius: radius, Paint: p})
}

func (r *Recorder) FillPolygon(pts []Point, p Paint) {
	r.add(Op{Kind: OpFillPolygon, Points: append([]Point(nil), pts...), Paint: p})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.add(Op{Kind: OpStrokeLine, Points: []Point{{x0, y0}, {x1, y1}}, Width: width, Color: c})
}

func (r *Recorder) StrokePolyline(pts []Point, width float64, c color.NRGBA) {
	r.add(Op{Kind: OpStrokePolyline, Points: append([]Point(nil), pts...), Width: width, Color: c})
}

func (r *Recorder) DrawImage(img image.Image, x, y int) {
	r.add(Op{Kind: OpDrawImage, Points: []Point{{float64(x), float64(y)}}, Image: img})
}

func (r *Recorder) DrawText(s string, x, y float64, c color.NRGBA) {
	r.add(Op{Kind: OpDrawText, Points: []Point{{x, y}}, Text: s, Color: c})
}

// MeasureText uses the fixed 7x13 cell of the raster canvas.
func (r *Recorder) MeasureText(s string) (float64, float64) {
	return float64(7 * len([]rune(s))), 13
}

func (r *Recorder) add(op Op) {
	op.Blend = r.blend
	r.Ops = append(r.Ops, op)
}
