package types

import (
	"fmt"
	"sort"
)

// Topology is the immutable port map derived once from the configured
// node id set: the PairPort involution, the ClientPort set, and the
// reverse port->owner lookup. All tables here are built once at
// startup and never mutated afterwards.
type Topology struct {
	// Nodes is the configured node id set, sorted ascending.
	Nodes []NodeID

	// PeerPort is an involution: PeerPort[PeerPort[p]] == p.
	PeerPort map[PairPort]PairPort

	// ClientPorts lists ClientPort(p) for every configured node p.
	ClientPorts []ClientPort

	// PortToPID maps both PairPorts and ClientPorts back to the node
	// that is expected to dial that port.
	PortToPID map[int]NodeID
}

// NewTopology derives the full topology from a node id set. It is a
// pure function: the same input always produces the same tables.
//
// Fails (configuration fault) when: the set is empty, contains a zero
// id, contains a duplicate, or the derived PairPort/ClientPort ranges
// collide with one another.
func NewTopology(nodes []NodeID) (*Topology, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("NODES must not be empty")
	}

	seen := make(map[NodeID]struct{}, len(nodes))
	sorted := make([]NodeID, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, n := range sorted {
		if n == 0 {
			return nil, fmt.Errorf("node id 0 is forbidden")
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate node id %d", n)
		}
		seen[n] = struct{}{}
	}

	t := &Topology{
		Nodes:     sorted,
		PeerPort:  make(map[PairPort]PairPort),
		PortToPID: make(map[int]NodeID),
	}

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			pab := PairPortFor(a, b)
			pba := PairPortFor(b, a)

			if err := t.claim(int(pab), a); err != nil {
				return nil, err
			}
			if err := t.claim(int(pba), b); err != nil {
				return nil, err
			}

			t.PeerPort[pab] = pba
			t.PeerPort[pba] = pab
		}
	}

	for _, n := range sorted {
		cp := ClientPortFor(n)
		if err := t.claim(int(cp), n); err != nil {
			return nil, err
		}
		t.ClientPorts = append(t.ClientPorts, cp)
	}

	return t, nil
}

func (t *Topology) claim(port int, owner NodeID) error {
	if existing, ok := t.PortToPID[port]; ok && existing != owner {
		return fmt.Errorf("port %d collides between node %d and node %d", port, existing, owner)
	}
	t.PortToPID[port] = owner
	return nil
}

// PairPorts returns every derived PairPort, in ascending order, useful
// for iterating the full mesh listener set at startup.
func (t *Topology) PairPorts() []PairPort {
	ports := make([]PairPort, 0, len(t.PeerPort))
	for p := range t.PeerPort {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}

// UndirectedPairs enumerates every unordered pair (a < b) derivable
// from the configured node set, the domain over which the Partition
// Set and Scenario Engine operate.
func (t *Topology) UndirectedPairs() []UnorderedPair {
	pairs := make([]UnorderedPair, 0, len(t.Nodes)*(len(t.Nodes)-1)/2)
	for i := 0; i < len(t.Nodes); i++ {
		for j := i + 1; j < len(t.Nodes); j++ {
			pairs = append(pairs, UnorderedPair{A: t.Nodes[i], B: t.Nodes[j]})
		}
	}
	return pairs
}
