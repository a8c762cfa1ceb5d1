package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ErrInvalidSize is returned when a canvas is created or resized to a non-positive size.
var ErrInvalidSize = errors.New("canvas: invalid size")

// Canvas is an opaque RGBA raster that implements Surface in software.
type Canvas struct {
	img   *image.RGBA
	blend Blend

	z    *vector.Rasterizer
	mask *image.Alpha
	face font.Face
}

// New allocates a canvas cleared to opaque black.
func New(width, height int) (*Canvas, error) {
	c := &Canvas{
		z:    vector.NewRasterizer(1, 1),
		face: basicfont.Face7x13,
	}
	if err := c.Resize(width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize reallocates the raster. Contents are cleared to opaque black.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	c.mask = image.NewAlpha(image.Rect(0, 0, width, height))
	return nil
}

// Image exposes the backing raster. It is reused between frames.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) SetBlend(b Blend) { c.blend = b }

func (c *Canvas) FillRect(x, y, w, h float64, p Paint) {
	x0, y0, x1, y1, ok := c.clipBox(x, y, x+w, y+h)
	if !ok {
		return
	}
	if s, solid := p.(Solid); solid {
		col := color.NRGBA(s)
		for py := y0; py < y1; py++ {
			off := c.img.PixOffset(x0, py)
			for px := x0; px < x1; px++ {
				c.blendPixel(off, col, 1)
				off += 4
			}
		}
		return
	}
	for py := y0; py < y1; py++ {
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			c.blendPixel(off, p.ColorAt(float64(px)+0.5, float64(py)+0.5), 1)
			off += 4
		}
	}
}

func (c *Canvas) FillCircle(cx, cy, r float64, p Paint) {
	if r <= 0 {
		return
	}
	x0, y0, x1, y1, ok := c.clipBox(cx-r-1, cy-r-1, cx+r+1, cy+r+1)
	if !ok {
		return
	}
	for py := y0; py < y1; py++ {
		fy := float64(py) + 0.5
		off := c.img.PixOffset(x0, py)
		for px := x0; px < x1; px++ {
			fx := float64(px) + 0.5
			cov := r - math.Hypot(fx-cx, fy-cy) + 0.5
			if cov > 0 {
				if cov > 1 {
					cov = 1
				}
				c.blendPixel(off, p.ColorAt(fx, fy), cov)
			}
			off += 4
		}
	}
}

func (c *Canvas) FillPolygon(pts []Point, p Paint) {
	if len(pts) < 3 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	x0, y0, x1, y1, ok := c.clipBox(minX, minY, maxX, maxY)
	if !ok {
		return
	}
	clipped := clipPolygon(pts, float64(x0), float64(y0), float64(x1), float64(y1))
	if len(clipped) < 3 {
		return
	}

	bw, bh := x1-x0, y1-y0
	c.z.Reset(bw, bh)
	c.z.DrawOp = draw.Src
	ox, oy := float64(x0), float64(y0)
	c.z.MoveTo(float32(clipped[0].X-ox), float32(clipped[0].Y-oy))
	for _, pt := range clipped[1:] {
		c.z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
	}
	c.z.ClosePath()

	mask := c.mask.SubImage(image.Rect(0, 0, bw, bh)).(*image.Alpha)
	c.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	solid, isSolid := p.(Solid)
	for my := 0; my < bh; my++ {
		row := mask.Pix[my*mask.Stride : my*mask.Stride+bw]
		off := c.img.PixOffset(x0, y0+my)
		for mx, a := range row {
			if a != 0 {
				var col color.NRGBA
				if isSolid {
					col = color.NRGBA(solid)
				} else {
					col = p.ColorAt(ox+float64(mx)+0.5, oy+float64(my)+0.5)
				}
				c.blendPixel(off, col, float64(a)/255)
			}
			off += 4
		}
	}
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length < 1e-9 || width <= 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	c.FillPolygon([]Point{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}, Solid(col))
}

func (c *Canvas) StrokePolyline(pts []Point, width float64, col color.NRGBA) {
	for i := 1; i < len(pts); i++ {
		c.StrokeLine(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, width, col)
	}
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy()).Intersect(c.img.Bounds())
	if dst.Empty() {
		return
	}
	src, isNRGBA := img.(*image.NRGBA)
	for py := dst.Min.Y; py < dst.Max.Y; py++ {
		sy := b.Min.Y + py - y
		off := c.img.PixOffset(dst.Min.X, py)
		for px := dst.Min.X; px < dst.Max.X; px++ {
			sx := b.Min.X + px - x
			var col color.NRGBA
			if isNRGBA {
				i := src.PixOffset(sx, sy)
				col = color.NRGBA{R: src.Pix[i], G: src.Pix[i+1], B: src.Pix[i+2], A: src.Pix[i+3]}
			} else {
				col = color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			}
			if col.A != 0 {
				c.blendPixel(off, col, 1)
			}
			off += 4
		}
	}
}

// DrawText draws s with its top-left corner at (x, y).
func (c *Canvas) DrawText(s string, x, y float64, col color.NRGBA) {
	tw, th := c.MeasureText(s)
	w, h := int(math.Ceil(tw)), int(math.Ceil(th))
	if w <= 0 || h <= 0 {
		return
	}
	if w > c.mask.Rect.Dx() {
		w = c.mask.Rect.Dx()
	}
	if h > c.mask.Rect.Dy() {
		h = c.mask.Rect.Dy()
	}
	mask := c.mask.SubImage(image.Rect(0, 0, w, h)).(*image.Alpha)
	for row := 0; row < h; row++ {
		clear(mask.Pix[row*mask.Stride : row*mask.Stride+w])
	}
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: c.face,
		Dot:  fixed.P(0, c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	ox, oy := int(math.Round(x)), int(math.Round(y))
	for my := 0; my < h; my++ {
		py := oy + my
		if py < 0 || py >= c.img.Rect.Dy() {
			continue
		}
		for mx := 0; mx < w; mx++ {
			px := ox + mx
			if px < 0 || px >= c.img.Rect.Dx() {
				continue
			}
			if a := mask.Pix[my*mask.Stride+mx]; a != 0 {
				c.blendPixel(c.img.PixOffset(px, py), col, float64(a)/255)
			}
		}
	}
}

func (c *Canvas) MeasureText(s string) (float64, float64) {
	w := font.MeasureString(c.face, s).Ceil()
	h := c.face.Metrics().Height.Ceil()
	return float64(w), float64(h)
}

// blendPixel composites col at coverage cov over the opaque pixel at off.
func (c *Canvas) blendPixel(off int, col color.NRGBA, cov float64) {
	a := float64(col.A) / 255 * cov
	if a <= 0 {
		return
	}
	pix := c.img.Pix[off : off+3 : off+3]
	src := [3]uint8{col.R, col.G, col.B}
	for i := range pix {
		d := float64(pix[i]) / 255
		s := float64(src[i]) / 255
		var mixed float64
		switch c.blend {
		case BlendMultiply:
			mixed = s * d
		case BlendScreen:
			mixed = s + d - s*d
		default:
			mixed = s
		}
		out := d + (mixed-d)*a
		pix[i] = uint8(math.Round(clamp01(out) * 255))
	}
}

// clipBox converts a float box to integer pixel bounds clipped to the raster.
func (c *Canvas) clipBox(x0, y0, x1, y1 float64) (int, int, int, int, bool) {
	r := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(c.img.Bounds())
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	return r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, true
}

// clipPolygon clips pts to the axis-aligned box (Sutherland-Hodgman).
func clipPolygon(pts []Point, minX, minY, maxX, maxY float64) []Point {
	inside := []func(Point) bool{
		func(p Point) bool { return p.X >= minX },
		func(p Point) bool { return p.X <= maxX },
		func(p Point) bool { return p.Y >= minY },
		func(p Point) bool { return p.Y <= maxY },
	}
	cross := []func(a, b Point) Point{
		func(a, b Point) Point { return lerpX(a, b, minX) },
		func(a, b Point) Point { return lerpX(a, b, maxX) },
		func(a, b Point) Point { return lerpY(a, b, minY) },
		func(a, b Point) Point { return lerpY(a, b, maxY) },
	}
	out := pts
	for edge := range inside {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]Point, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			curIn, prevIn := inside[edge](cur), inside[edge](prev)
			switch {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn && !prevIn:
				out = append(out, cross[edge](prev, cur), cur)
			case !curIn && prevIn:
				out = append(out, cross[edge](prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func lerpX(a, b Point, x float64) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{X: x, Y: a.Y + (b.Y-a.Y)*t}
}

func lerpY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + (b.X-a.X)*t, Y: y}
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
