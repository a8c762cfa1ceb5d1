package field

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

const (
	// ShardMargin is how far a shard may drift past an edge before wrapping.
	ShardMargin = 150

	highlightChance = 0.05
	noiseScale      = 64.0
)

// Offset is a vertex position relative to the shard origin.
type Offset struct {
	DX, DY float64
}

// Shard is one background triangle. Its shape is fixed at creation.
type Shard struct {
	X, Y      float64
	VX, VY    float64
	V1, V2    Offset
	Light     bool
	Opacity   float64
	Highlight bool
}

// Vertices returns the triangle corners in surface coordinates.
func (s Shard) Vertices() [3][2]float64 {
	return [3][2]float64{
		{s.X, s.Y},
		{s.X + s.V1.DX, s.Y + s.V1.DY},
		{s.X + s.V2.DX, s.Y + s.V2.DY},
	}
}

// Centroid returns the triangle's center of mass.
func (s Shard) Centroid() (float64, float64) {
	return s.X + (s.V1.DX+s.V2.DX)/3, s.Y + (s.V1.DY+s.V2.DY)/3
}

// Shards is the triangle texture field plus a static grain raster sized to
// the surface.
type Shards struct {
	Items []Shard
	Noise *image.NRGBA
}

func newShards(rng *rand.Rand, b Bounds) *Shards {
	scale := b.Min() / 600
	if scale < 0.25 {
		scale = 0.25
	}
	s := &Shards{Items: make([]Shard, ShardCount)}
	for i := range s.Items {
		s.Items[i] = Shard{
			X:         between(rng, -ShardMargin, b.W+ShardMargin),
			Y:         between(rng, -ShardMargin, b.H+ShardMargin),
			VX:        between(rng, -0.15, 0.15),
			VY:        between(rng, -0.15, 0.15),
			V1:        randomOffset(rng, scale),
			V2:        randomOffset(rng, scale),
			Light:     rng.Float64() < 0.5,
			Opacity:   between(rng, 0.02, 0.08),
			Highlight: rng.Float64() < highlightChance,
		}
	}
	s.Noise = newNoiseRaster(rng, int(b.W), int(b.H))
	return s
}

func randomOffset(rng *rand.Rand, scale float64) Offset {
	dx := between(rng, 10, 60) * scale
	dy := between(rng, 10, 60) * scale
	if rng.Intn(2) == 0 {
		dx = -dx
	}
	if rng.Intn(2) == 0 {
		dy = -dy
	}
	return Offset{DX: dx, DY: dy}
}

// newNoiseRaster renders low-alpha paper grain: coarse perlin mottling
// mixed with per-pixel jitter.
func newNoiseRaster(rng *rand.Rand, width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	p := perlin.NewPerlin(2, 2, 3, rng.Int63())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mottle := 0.5 + 0.5*p.Noise2D(float64(x)/noiseScale, float64(y)/noiseScale)
			grain := rng.Float64()
			tone := uint8(60 + clampUnit(mottle*0.6+grain*0.4)*140)
			img.SetNRGBA(x, y, color.NRGBA{R: tone, G: tone, B: tone, A: uint8(4 + grain*14)})
		}
	}
	return img
}

// Advance drifts every shard and wraps it once fully past the margin.
func (s *Shards) Advance(b Bounds) {
	for i := range s.Items {
		sh := &s.Items[i]
		sh.X = wrap(sh.X+sh.VX, -ShardMargin, b.W+ShardMargin)
		sh.Y = wrap(sh.Y+sh.VY, -ShardMargin, b.H+ShardMargin)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
