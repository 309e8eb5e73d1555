package core

import (
	"sync"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// PartitionSet is the shared, atomically-mutable set of PairPorts
// currently disconnected. It is the single source of truth the Central
// Router consults on every frame, so Contains must stay lock-cheap and
// never perform I/O while held.
type PartitionSet struct {
	topology *types.Topology

	mu    sync.RWMutex
	ports map[types.PairPort]struct{}
}

// NewPartitionSet builds an empty PartitionSet over the given topology.
func NewPartitionSet(topology *types.Topology) *PartitionSet {
	return &PartitionSet{
		topology: topology,
		ports:    make(map[types.PairPort]struct{}),
	}
}

// Contains reports whether frames arriving on port p should be
// dropped. Read-only, lock-cheap, no I/O.
func (p *PartitionSet) Contains(port types.PairPort) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.ports[port]
	return ok
}

// SetUndirected adds or removes both P(a,b) and P(b,a) together,
// modeling an undirected partition between a and b. Returns true if
// the set actually changed.
func (p *PartitionSet) SetUndirected(a, b types.NodeID, connected bool) bool {
	pab := types.PairPortFor(a, b)
	pba := types.PairPortFor(b, a)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applyLocked(pab, pba, connected)
}

// applyLocked must be called with p.mu held.
func (p *PartitionSet) applyLocked(pab, pba types.PairPort, connected bool) bool {
	changed := false
	if connected {
		if _, ok := p.ports[pab]; ok {
			delete(p.ports, pab)
			changed = true
		}
		if _, ok := p.ports[pba]; ok {
			delete(p.ports, pba)
			changed = true
		}
	} else {
		if _, ok := p.ports[pab]; !ok {
			p.ports[pab] = struct{}{}
			changed = true
		}
		if _, ok := p.ports[pba]; !ok {
			p.ports[pba] = struct{}{}
			changed = true
		}
	}
	return changed
}

// SetAllFrom disconnects (or reconnects) node a from every other
// configured node, atomically with respect to Contains.
func (p *PartitionSet) SetAllFrom(a types.NodeID, connected bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := false
	for _, n := range p.topology.Nodes {
		if n == a {
			continue
		}
		pab := types.PairPortFor(a, n)
		pba := types.PairPortFor(n, a)
		if p.applyLocked(pab, pba, connected) {
			changed = true
		}
	}
	return changed
}

// Clear empties the partition set. Returns true if it was non-empty.
func (p *PartitionSet) Clear() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ports) == 0 {
		return false
	}
	p.ports = make(map[types.PairPort]struct{})
	return true
}

// InstallExactly atomically replaces the whole set with the union of
// the undirected pairs given, used by scenario macros that install a
// fixed topology in one step. Returns true if the set changed.
func (p *PartitionSet) InstallExactly(pairs []types.UnorderedPair) bool {
	next := make(map[types.PairPort]struct{}, len(pairs)*2)
	for _, pair := range pairs {
		next[types.PairPortFor(pair.A, pair.B)] = struct{}{}
		next[types.PairPortFor(pair.B, pair.A)] = struct{}{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if mapsEqual(p.ports, next) {
		return false
	}
	p.ports = next
	return true
}

func mapsEqual(a, b map[types.PairPort]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Snapshot returns the current partition set collapsed into undirected
// pairs, for the Cluster View Aggregator.
func (p *PartitionSet) Snapshot() []types.UnorderedPair {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[types.UnorderedPair]struct{})
	for port := range p.ports {
		owner, ok := p.topology.PortToPID[int(port)]
		if !ok {
			continue
		}
		peer, ok := p.topology.PeerPort[port]
		if !ok {
			continue
		}
		partner, ok := p.topology.PortToPID[int(peer)]
		if !ok {
			continue
		}
		seen[types.NewUnorderedPair(owner, partner)] = struct{}{}
	}

	pairs := make([]types.UnorderedPair, 0, len(seen))
	for pair := range seen {
		pairs = append(pairs, pair)
	}
	return pairs
}
