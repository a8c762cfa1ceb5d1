package field

import (
	"math"
	"math/rand"
)

// Star is a stationary twinkling point.
type Star struct {
	X, Y    float64
	Size    float64
	Alpha   float64
	Phase   float64
	Speed   float64
	Twinkle float64
}

// Nebula is the star field. Boost is the high-band size and brightness multiplier.
type Nebula struct {
	Stars []Star
	Boost float64
}

func newNebula(rng *rand.Rand, b Bounds) *Nebula {
	n := &Nebula{Stars: make([]Star, NebulaStars), Boost: 1}
	for i := range n.Stars {
		n.Stars[i] = Star{
			X:       rng.Float64() * b.W,
			Y:       rng.Float64() * b.H,
			Size:    between(rng, 0.5, 2),
			Alpha:   between(rng, 0.2, 0.8),
			Phase:   rng.Float64() * 2 * math.Pi,
			Speed:   between(rng, 0.5, 3),
			Twinkle: 1,
		}
	}
	return n
}

// Advance updates twinkle and the high-band boost. Stars never move.
func (n *Nebula) Advance(elapsed, high float64) {
	for i := range n.Stars {
		s := &n.Stars[i]
		s.Twinkle = 0.5 + 0.5*math.Sin(elapsed*s.Speed+s.Phase)
	}
	n.Boost = 1 + high*1.5
}
