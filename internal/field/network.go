package field

import (
	"math"
	"math/rand"
)

// Node is one network particle.
type Node struct {
	X, Y   float64
	VX, VY float64
	R      float64
}

// Link connects two nodes closer than the bass-reactive threshold.
type Link struct {
	A, B  int
	Alpha float64
}

// Network is a set of drifting nodes joined by proximity links.
type Network struct {
	Nodes []Node
}

func newNetwork(rng *rand.Rand, b Bounds, count int) *Network {
	n := &Network{Nodes: make([]Node, count)}
	for i := range n.Nodes {
		n.Nodes[i] = Node{
			X:  rng.Float64() * b.W,
			Y:  rng.Float64() * b.H,
			VX: between(rng, -0.5, 0.5),
			VY: between(rng, -0.5, 0.5),
			R:  between(rng, 1.5, 3.5),
		}
	}
	return n
}

// Advance moves every node, speeding up with bass, and wraps nodes leaving
// [0, W] x [0, H] to the opposite edge.
func (n *Network) Advance(b Bounds, bass float64) {
	speed := 1 + bass*0.5
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		nd.X = wrap(nd.X+nd.VX*speed, 0, b.W)
		nd.Y = wrap(nd.Y+nd.VY*speed, 0, b.H)
	}
}

// LinkThreshold is the maximum link distance for a bass level.
func LinkThreshold(bass float64) float64 {
	return 120 + bass*350
}

// Links recomputes every pair connection for this frame, appending to dst.
func (n *Network) Links(bass float64, dst []Link) []Link {
	dst = dst[:0]
	threshold := LinkThreshold(bass)
	strength := 0.3 + bass*0.8
	for i := 0; i < len(n.Nodes); i++ {
		a := n.Nodes[i]
		for j := i + 1; j < len(n.Nodes); j++ {
			b := n.Nodes[j]
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist < threshold {
				dst = append(dst, Link{A: i, B: j, Alpha: (1 - dist/threshold) * strength})
			}
		}
	}
	return dst
}

// wrap teleports v to the opposite edge once it leaves [lo, hi].
func wrap(v, lo, hi float64) float64 {
	if v < lo {
		return hi
	}
	if v > hi {
		return lo
	}
	return v
}
