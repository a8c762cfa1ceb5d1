package render

import (
	"math"
	"math/rand"

	"github.com/guidoenr/spectra/internal/canvas"
	"github.com/guidoenr/spectra/internal/field"
)

// shake returns this frame's camera jitter; each axis is bounded by 2*bass.
func shake(rng *rand.Rand, bass float64) (float64, float64) {
	amp := 2 * bass
	return (rng.Float64()*2 - 1) * amp, (rng.Float64()*2 - 1) * amp
}

// shardPolygon returns a shard's triangle offset by (dx, dy) and its
// centroid and reach (largest centroid-to-vertex distance).
func shardPolygon(sh field.Shard, dx, dy float64) ([]canvas.Point, float64, float64, float64) {
	v := sh.Vertices()
	pts := make([]canvas.Point, 3)
	for i, p := range v {
		pts[i] = canvas.Point{X: p[0] + dx, Y: p[1] + dy}
	}
	cx, cy := sh.Centroid()
	cx, cy = cx+dx, cy+dy
	reach := 0.0
	for _, p := range pts {
		reach = math.Max(reach, math.Hypot(p.X-cx, p.Y-cy))
	}
	return pts, cx, cy, reach
}

func (e *Engine) drawNetwork(fc *frameContext) {
	fillBackground(fc, 8, 8, 14, 1)

	shards := e.fields.Shards(fc.bounds)
	shards.Advance(fc.bounds)
	net := e.fields.Network(fc.bounds)
	net.Advance(fc.bounds, fc.m.Bass)

	dx, dy := shake(e.rng, fc.m.Bass)

	for _, sh := range shards.Items {
		pts, gx, gy, reach := shardPolygon(sh, dx, dy)
		var center = rgba(0, 0, 0, sh.Opacity*4)
		if sh.Light {
			center = rgba(255, 255, 255, sh.Opacity*3)
		}
		fc.s.FillPolygon(pts, canvas.NewRadial(gx, gy, reach,
			canvas.Stop{Offset: 0, Color: center},
			canvas.Stop{Offset: 1, Color: transparent(center)},
		))
	}

	e.links = net.Links(fc.m.Bass, e.links)
	for _, l := range e.links {
		a, b := net.Nodes[l.A], net.Nodes[l.B]
		fc.s.StrokeLine(a.X+dx, a.Y+dy, b.X+dx, b.Y+dy, 1, hsla(fc.hue, 0.7, 0.6, l.Alpha))
	}

	grow := 1 + fc.m.Bass + fc.m.Mid
	nodeColor := hsla(fc.hue+30, 0.8, 0.65, 0.9)
	for _, nd := range net.Nodes {
		fc.s.FillCircle(nd.X+dx, nd.Y+dy, nd.R*grow, canvas.Solid(nodeColor))
	}
}
