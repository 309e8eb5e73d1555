package core

import (
	"context"
	"time"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// proposeTickRate is the Proposal Streamer's fixed tick.
const proposeTickRate = 10 * time.Millisecond

// StreamerMetrics receives the Proposal Streamer's per-tick progress.
type StreamerMetrics interface {
	ObserveQueueDepth(depth int)
	ObserveBatchTotal(total uint64)
}

type noopStreamerMetrics struct{}

func (noopStreamerMetrics) ObserveQueueDepth(int)    {}
func (noopStreamerMetrics) ObserveBatchTotal(uint64) {}

// ProposalStreamer drains the CommandQueue at a fixed tick, targeting
// the current leader's client socket.
type ProposalStreamer struct {
	queue      *CommandQueue
	peers      *AlivePeers
	leaderView *LeaderView
	bus        *EventBus
	metrics    StreamerMetrics

	lastLen     int
	batchActive bool
	batchTotal  uint64
}

// NewProposalStreamer builds a streamer over the shared queue, peer
// registry and leader view.
func NewProposalStreamer(queue *CommandQueue, peers *AlivePeers, leaderView *LeaderView, bus *EventBus, metrics StreamerMetrics) *ProposalStreamer {
	if metrics == nil {
		metrics = noopStreamerMetrics{}
	}
	return &ProposalStreamer{queue: queue, peers: peers, leaderView: leaderView, bus: bus, metrics: metrics}
}

// Run ticks every 10ms until ctx is cancelled.
func (s *ProposalStreamer) Run(ctx context.Context) {
	ticker := time.NewTicker(proposeTickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one sample-dequeue-propose cycle.
func (s *ProposalStreamer) tick() {
	currentLen := s.queue.Len()
	s.updateBatchAccounting(currentLen)
	s.lastLen = currentLen

	cmd, ok := s.queue.Dequeue()
	if ok {
		s.propose(cmd)
	}

	s.metrics.ObserveQueueDepth(s.queue.Len())
	s.metrics.ObserveBatchTotal(s.batchTotal)
	s.bus.PublishUI(types.ProposalStatusUIEvent{
		Queued:     uint64(s.queue.Len()),
		BatchTotal: s.batchTotal,
	})
}

// updateBatchAccounting tracks a batch's running total across ticks:
// it grows whenever the queue grows and resets once the queue drains
// to zero.
func (s *ProposalStreamer) updateBatchAccounting(currentLen int) {
	if currentLen > s.lastLen {
		s.batchTotal += uint64(currentLen - s.lastLen)
		s.batchActive = true
	}
	if s.batchActive && currentLen == 0 {
		s.batchTotal = 0
		s.batchActive = false
	}
}

// propose sends cmd to the current leader, or reports
// ClusterUnreachable if no leader is known or the known leader is not
// currently alive.
func (s *ProposalStreamer) propose(cmd types.KVCommand) {
	leader := s.leaderView.CurrentLeader()
	if leader == nil {
		s.bus.PublishUI(types.ClusterUnreachableUIEvent{})
		return
	}
	if !s.peers.Contains(*leader) {
		s.bus.PublishUI(types.ClusterUnreachableUIEvent{})
		return
	}

	data, err := types.EncodeRequest(cmd)
	if err != nil {
		return
	}
	if err := s.peers.Write(*leader, data); err != nil {
		s.bus.PublishUI(types.ClusterUnreachableUIEvent{})
	}
}
