// Package types holds the data model shared across the coordinator:
// node/port identities, the derived topology, wire envelopes and the
// events that flow through the Event Bus.
package types

import "fmt"

// NodeID identifies a replica. Zero is forbidden.
type NodeID uint64

// PairPort is the TCP port for one direction of a replica-to-replica link.
type PairPort int

// ClientPort is the TCP port on which the coordinator accepts a
// replica's client API connection.
type ClientPort int

// PairPortFor computes P(a, b) = 8000 + 10*a + b.
func PairPortFor(a, b NodeID) PairPort {
	return PairPort(8000 + 10*a + b)
}

// ClientPortFor computes ClientPort(p) = 8000 + p.
func ClientPortFor(p NodeID) ClientPort {
	return ClientPort(8000 + int(p))
}

func (p PairPort) String() string {
	return fmt.Sprintf("%d", int(p))
}

func (c ClientPort) String() string {
	return fmt.Sprintf("%d", int(c))
}

// UnorderedPair is a normalized (min, max) node pair, used to represent
// an undirected partition or link in the aggregator's output.
type UnorderedPair struct {
	A NodeID
	B NodeID
}

// NewUnorderedPair normalizes a, b so A <= B.
func NewUnorderedPair(a, b NodeID) UnorderedPair {
	if a <= b {
		return UnorderedPair{A: a, B: b}
	}
	return UnorderedPair{A: b, B: a}
}
