// Package field owns the persistent particle simulations behind the
// network, watercolor, nebula and radial ink modes.
package field

import (
	"math"
	"math/rand"
)

// Field sizes.
const (
	NetworkNodes    = 50
	MaxNetworkNodes = 200
	WatercolorBlobs = 7
	NebulaStars     = 150
	ShardCount      = 150
)

// Bounds is the surface extent the fields are proportioned to.
type Bounds struct {
	W, H float64
}

// NewBounds converts integer surface dimensions.
func NewBounds(width, height int) Bounds {
	return Bounds{W: float64(width), H: float64(height)}
}

// Min returns the smaller dimension.
func (b Bounds) Min() float64 { return math.Min(b.W, b.H) }

// Manager lazily creates each field on first use and discards all of them
// when the bounds change. Fields survive mode switches.
type Manager struct {
	rng          *rand.Rand
	bounds       Bounds
	networkNodes int

	network    *Network
	watercolor *Watercolor
	nebula     *Nebula
	shards     *Shards

	generation int
}

// NewManager returns an empty manager drawing randomness from rng.
func NewManager(rng *rand.Rand) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Manager{rng: rng, networkNodes: NetworkNodes}
}

// SetNetworkNodes changes the node count used the next time the network
// field is created. The count is clamped to [2, MaxNetworkNodes].
func (m *Manager) SetNetworkNodes(n int) {
	if n < 2 {
		n = 2
	}
	if n > MaxNetworkNodes {
		n = MaxNetworkNodes
	}
	m.networkNodes = n
}

// Reset drops every field and records the new bounds.
func (m *Manager) Reset(b Bounds) {
	m.bounds = b
	m.network = nil
	m.watercolor = nil
	m.nebula = nil
	m.shards = nil
	m.generation++
}

// Generation counts resets; it changes whenever fields were invalidated.
func (m *Manager) Generation() int { return m.generation }

// Bounds returns the bounds the current fields were built for.
func (m *Manager) Bounds() Bounds { return m.bounds }

func (m *Manager) sync(b Bounds) {
	if b != m.bounds {
		m.Reset(b)
	}
}

// Network returns the network field for b, creating it if needed.
func (m *Manager) Network(b Bounds) *Network {
	m.sync(b)
	if m.network == nil {
		m.network = newNetwork(m.rng, b, m.networkNodes)
	}
	return m.network
}

// Watercolor returns the watercolor field for b, creating it if needed.
func (m *Manager) Watercolor(b Bounds) *Watercolor {
	m.sync(b)
	if m.watercolor == nil {
		m.watercolor = newWatercolor(m.rng, b)
	}
	return m.watercolor
}

// Nebula returns the star field for b, creating it if needed.
func (m *Manager) Nebula(b Bounds) *Nebula {
	m.sync(b)
	if m.nebula == nil {
		m.nebula = newNebula(m.rng, b)
	}
	return m.nebula
}

// Shards returns the shard field for b, creating it if needed.
func (m *Manager) Shards(b Bounds) *Shards {
	m.sync(b)
	if m.shards == nil {
		m.shards = newShards(m.rng, b)
	}
	return m.shards
}

// Active reports which fields currently exist.
func (m *Manager) Active() (network, watercolor, nebula, shards bool) {
	return m.network != nil, m.watercolor != nil, m.nebula != nil, m.shards != nil
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
