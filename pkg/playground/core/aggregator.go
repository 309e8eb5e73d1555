package core

import (
	"sort"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// Aggregator is the Cluster View Aggregator. It is deliberately
// lock-free: it is owned by the Coordinator and mutated only from the
// dispatcher goroutine, so no internal synchronization is needed as
// long as every method here is only ever called from that one
// goroutine. Any caller on another goroutine must instead route
// through the event bus so the dispatcher performs the read/write.
type Aggregator struct {
	topology   *types.Topology
	partitions *PartitionSet
	peers      *AlivePeers
	leaderView *LeaderView

	maxRound  *types.Round
	happiness map[types.NodeID]bool
}

// NewAggregator builds an Aggregator over the given topology, sharing
// the PartitionSet and AlivePeers registry with the rest of the
// coordinator. leaderView is kept in sync with maxRound on every
// accepted change, for the Proposal Streamer to read lock-free.
func NewAggregator(topology *types.Topology, partitions *PartitionSet, peers *AlivePeers, leaderView *LeaderView) *Aggregator {
	return &Aggregator{
		topology:   topology,
		partitions: partitions,
		peers:      peers,
		leaderView: leaderView,
		happiness:  make(map[types.NodeID]bool),
	}
}

// AcceptNewRound applies a NewRound self-report. Accepted iff the
// reported round is strictly greater than max_round; ties and lower
// rounds are ignored. Returns true if max_round changed.
func (a *Aggregator) AcceptNewRound(round *types.Round) bool {
	if round == nil {
		return false
	}
	if a.maxRound == nil || a.maxRound.Less(*round) {
		a.maxRound = round
		if a.leaderView != nil {
			a.leaderView.Store(round)
		}
		return true
	}
	return false
}

// SetHappiness overwrites the prior liveness flag for node.
func (a *Aggregator) SetHappiness(node types.NodeID, flag bool) {
	a.happiness[node] = flag
}

// CurrentLeader returns the leader of the highest accepted round, or
// nil if no round has been reported yet.
func (a *Aggregator) CurrentLeader() *types.NodeID {
	if a.maxRound == nil {
		return nil
	}
	leader := a.maxRound.Leader
	return &leader
}

// MaxRound returns the current max round, or nil.
func (a *Aggregator) MaxRound() *types.Round {
	return a.maxRound
}

// Snapshot rebuilds the full ClusterSnapshot from current state.
func (a *Aggregator) Snapshot() types.ClusterSnapshot {
	happiness := make(map[types.NodeID]bool, len(a.happiness))
	for n, flag := range a.happiness {
		happiness[n] = flag
	}

	alive := a.peers.Nodes()

	var maxRound *types.Round
	if a.maxRound != nil {
		r := *a.maxRound
		maxRound = &r
	}

	partitions := a.partitions.Snapshot()
	sort.Slice(partitions, func(i, j int) bool {
		if partitions[i].A != partitions[j].A {
			return partitions[i].A < partitions[j].A
		}
		return partitions[i].B < partitions[j].B
	})

	return types.ClusterSnapshot{
		Nodes:                append([]types.NodeID{}, a.topology.Nodes...),
		AliveNodes:           alive,
		PartitionsUndirected: partitions,
		MaxRound:             maxRound,
		Happiness:            happiness,
	}
}
