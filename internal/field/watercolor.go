package field

import (
	"math"
	"math/rand"
)

// bounceMargin is how far past each edge a blob may travel before bouncing.
const bounceMargin = 100

// Blob is one painterly color pool.
type Blob struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Hue    float64
	Phase  float64
	// Band is the audio band the blob reacts to: 0 bass, 1 mid, 2 high.
	Band int
}

// Watercolor is the blob field.
type Watercolor struct {
	Blobs []Blob
}

func newWatercolor(rng *rand.Rand, b Bounds) *Watercolor {
	w := &Watercolor{Blobs: make([]Blob, WatercolorBlobs)}
	for i := range w.Blobs {
		w.Blobs[i] = Blob{
			X:      rng.Float64() * b.W,
			Y:      rng.Float64() * b.H,
			VX:     between(rng, -1, 1),
			VY:     between(rng, -1, 1),
			Radius: b.Min() * between(rng, 0.15, 0.35),
			Hue:    rng.Float64() * 360,
			Phase:  rng.Float64() * 2 * math.Pi,
			Band:   i % 3,
		}
	}
	return w
}

// Advance moves blobs, faster with bass, bouncing off the extended bounds.
func (w *Watercolor) Advance(b Bounds, bass float64) {
	speed := 1 + bass*5
	for i := range w.Blobs {
		bl := &w.Blobs[i]
		bl.X += bl.VX * speed
		bl.Y += bl.VY * speed
		bl.X, bl.VX = bounce(bl.X, bl.VX, -bounceMargin, b.W+bounceMargin)
		bl.Y, bl.VY = bounce(bl.Y, bl.VY, -bounceMargin, b.H+bounceMargin)
	}
}

func bounce(pos, vel, lo, hi float64) (float64, float64) {
	if pos < lo {
		return lo, math.Abs(vel)
	}
	if pos > hi {
		return hi, -math.Abs(vel)
	}
	return pos, vel
}
