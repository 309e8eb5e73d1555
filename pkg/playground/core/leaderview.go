package core

import (
	"sync/atomic"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// LeaderView publishes the aggregator's current max_round for the
// Proposal Streamer's ticker goroutine to read without contending the
// dispatcher goroutine that owns the Aggregator. Same lock-cheap,
// fast-uncontended-read shape as the Partition Set's Contains, applied
// to the one other piece of Coordinator-owned state a non-dispatcher
// goroutine needs to read on every tick.
type LeaderView struct {
	round atomic.Pointer[types.Round]
}

// NewLeaderView builds an empty view (no round reported yet).
func NewLeaderView() *LeaderView {
	return &LeaderView{}
}

// Store publishes a new round. Called only from the dispatcher
// goroutine, whenever Aggregator.AcceptNewRound accepts a change.
func (v *LeaderView) Store(round *types.Round) {
	v.round.Store(round)
}

// Load returns the current round, or nil if none has been reported yet.
func (v *LeaderView) Load() *types.Round {
	return v.round.Load()
}

// CurrentLeader returns the leader of the current round, or nil.
func (v *LeaderView) CurrentLeader() *types.NodeID {
	r := v.Load()
	if r == nil {
		return nil
	}
	leader := r.Leader
	return &leader
}
