package field

import (
	"math/rand"
	"testing"
)

func testManager() *Manager {
	return NewManager(rand.New(rand.NewSource(42)))
}

func TestLazyInitIsIdempotent(t *testing.T) {
	m := testManager()
	b := Bounds{W: 320, H: 240}

	first := m.Network(b)
	snapshot := append([]Node(nil), first.Nodes...)
	second := m.Network(b)

	if first != second {
		t.Fatalf("expected the same network field on second activation")
	}
	if len(second.Nodes) != NetworkNodes {
		t.Fatalf("nodes=%d want %d", len(second.Nodes), NetworkNodes)
	}
	for i := range snapshot {
		if snapshot[i] != second.Nodes[i] {
			t.Fatalf("node %d changed on second activation", i)
		}
	}
	if m.Shards(b) != m.Shards(b) || m.Nebula(b) != m.Nebula(b) || m.Watercolor(b) != m.Watercolor(b) {
		t.Fatalf("expected every field to be created once")
	}
}

func TestFieldSizes(t *testing.T) {
	m := testManager()
	b := Bounds{W: 640, H: 480}
	if n := len(m.Watercolor(b).Blobs); n != WatercolorBlobs {
		t.Fatalf("blobs=%d", n)
	}
	if n := len(m.Nebula(b).Stars); n != NebulaStars {
		t.Fatalf("stars=%d", n)
	}
	if n := len(m.Shards(b).Items); n != ShardCount {
		t.Fatalf("shards=%d", n)
	}
}

func TestResizeRegeneratesFields(t *testing.T) {
	m := testManager()
	small := Bounds{W: 200, H: 100}
	large := Bounds{W: 300, H: 180}

	m.Network(small)
	before := m.Shards(small)
	gen := m.Generation()
	after := m.Shards(large)

	if before == after {
		t.Fatalf("expected a new shard field after resize")
	}
	if m.Generation() == gen {
		t.Fatalf("expected generation to advance on resize")
	}
	nb := after.Noise.Bounds()
	if nb.Dx() != 300 || nb.Dy() != 180 {
		t.Fatalf("noise raster=%dx%d want 300x180", nb.Dx(), nb.Dy())
	}
	if network, watercolor, nebula, _ := m.Active(); network || watercolor || nebula {
		t.Fatalf("resize should drop every field until reactivated")
	}
}

func TestNetworkStaysInBounds(t *testing.T) {
	m := testManager()
	b := Bounds{W: 160, H: 90}
	n := m.Network(b)
	for step := 0; step < 5000; step++ {
		n.Advance(b, float64(step%7))
		for i, nd := range n.Nodes {
			if nd.X < 0 || nd.X > b.W || nd.Y < 0 || nd.Y > b.H {
				t.Fatalf("step %d node %d out of bounds: (%f,%f)", step, i, nd.X, nd.Y)
			}
		}
	}
}

func TestNetworkLinks(t *testing.T) {
	n := &Network{Nodes: []Node{{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 400, Y: 0}}}

	links := n.Links(0, nil)
	if len(links) != 1 || links[0].A != 0 || links[0].B != 1 {
		t.Fatalf("links=%+v want only 0-1", links)
	}
	if want := (1 - 60.0/120) * 0.3; links[0].Alpha != want {
		t.Fatalf("alpha=%f want %f", links[0].Alpha, want)
	}

	loud := n.Links(1, links)
	if len(loud) != 3 {
		t.Fatalf("bass 1 threshold %f should link every pair, got %d", LinkThreshold(1), len(loud))
	}
}

func TestNetworkNodeCountIsCapped(t *testing.T) {
	m := testManager()
	m.SetNetworkNodes(10_000)
	if n := len(m.Network(Bounds{W: 100, H: 100}).Nodes); n != MaxNetworkNodes {
		t.Fatalf("nodes=%d want cap %d", n, MaxNetworkNodes)
	}
}

func TestWatercolorBouncesWithinMargin(t *testing.T) {
	m := testManager()
	b := Bounds{W: 200, H: 150}
	w := m.Watercolor(b)
	for step := 0; step < 3000; step++ {
		w.Advance(b, 2)
		for i, bl := range w.Blobs {
			if bl.X < -bounceMargin || bl.X > b.W+bounceMargin || bl.Y < -bounceMargin || bl.Y > b.H+bounceMargin {
				t.Fatalf("step %d blob %d escaped: (%f,%f)", step, i, bl.X, bl.Y)
			}
		}
	}
	for i, bl := range w.Blobs {
		if bl.Band != i%3 {
			t.Fatalf("blob %d band=%d want %d", i, bl.Band, i%3)
		}
	}
}

func TestBounceInvertsVelocity(t *testing.T) {
	pos, vel := bounce(-150, -2, -100, 300)
	if pos != -100 || vel != 2 {
		t.Fatalf("low bounce=(%f,%f)", pos, vel)
	}
	pos, vel = bounce(420, 3, -100, 300)
	if pos != 300 || vel != -3 {
		t.Fatalf("high bounce=(%f,%f)", pos, vel)
	}
}

func TestNebulaStarsAreStationary(t *testing.T) {
	m := testManager()
	b := Bounds{W: 300, H: 200}
	n := m.Nebula(b)
	before := append([]Star(nil), n.Stars...)

	n.Advance(3.5, 0.8)

	for i := range n.Stars {
		if n.Stars[i].X != before[i].X || n.Stars[i].Y != before[i].Y {
			t.Fatalf("star %d moved", i)
		}
		if tw := n.Stars[i].Twinkle; tw < 0 || tw > 1 {
			t.Fatalf("star %d twinkle=%f", i, tw)
		}
	}
	if n.Boost != 1+0.8*1.5 {
		t.Fatalf("boost=%f", n.Boost)
	}
}

func TestShardsWrapWithinMargin(t *testing.T) {
	m := testManager()
	b := Bounds{W: 120, H: 80}
	s := m.Shards(b)
	for i := range s.Items {
		s.Items[i].VX *= 400
		s.Items[i].VY *= 400
	}
	for step := 0; step < 2000; step++ {
		s.Advance(b)
		for i, sh := range s.Items {
			if sh.X < -ShardMargin || sh.X > b.W+ShardMargin || sh.Y < -ShardMargin || sh.Y > b.H+ShardMargin {
				t.Fatalf("step %d shard %d out of margin: (%f,%f)", step, i, sh.X, sh.Y)
			}
		}
	}
}

func TestShardShapeStableUnderTranslation(t *testing.T) {
	m := testManager()
	b := Bounds{W: 400, H: 300}
	s := m.Shards(b)
	before := s.Items[3]
	s.Advance(b)
	after := s.Items[3]
	if before.V1 != after.V1 || before.V2 != after.V2 {
		t.Fatalf("vertex offsets changed during advance")
	}
}

func TestShardHighlightShare(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	highlights, total := 0, 0
	for i := 0; i < 20; i++ {
		s := newShards(rng, Bounds{W: 32, H: 32})
		for _, sh := range s.Items {
			total++
			if sh.Highlight {
				highlights++
			}
		}
	}
	share := float64(highlights) / float64(total)
	if share < 0.02 || share > 0.09 {
		t.Fatalf("highlight share=%f want about 0.05", share)
	}
}

func TestFieldPositionsAreDistinct(t *testing.T) {
	m := testManager()
	n := m.Network(Bounds{W: 800, H: 600})
	seen := make(map[[2]float64]bool)
	for _, nd := range n.Nodes {
		key := [2]float64{nd.X, nd.Y}
		if seen[key] {
			t.Fatalf("duplicate node position %v", key)
		}
		seen[key] = true
	}
}
