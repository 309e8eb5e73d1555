package core

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// TestProposalStreamer_PropagatesToLeader verifies the streamer
// dequeues and writes to the leader's write-half on tick.
func TestProposalStreamer_PropagatesToLeader(t *testing.T) {
	peers := NewAlivePeers()
	clientSide, coordinatorSide := net.Pipe()
	defer clientSide.Close()
	defer coordinatorSide.Close()
	peers.Join(2, coordinatorSide)

	leaderView := NewLeaderView()
	leaderView.Store(&types.Round{RoundNum: 7, Leader: 2})

	queue := NewCommandQueue()
	queue.Enqueue(types.NewPut("x", "1"))

	bus := NewEventBus(silentLogger{})
	streamer := NewProposalStreamer(queue, peers, leaderView, bus, nil)

	done := make(chan []byte, 1)
	go func() {
		reader := bufio.NewReader(clientSide)
		line, _ := reader.ReadBytes('\n')
		done <- line
	}()

	streamer.tick()

	select {
	case line := <-done:
		want := `{"APIRequest":{"Put":{"key":"x","value":"1"}}}` + "\n"
		if string(line) != want {
			t.Errorf("got %q, want %q", line, want)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a write to the leader's write-half")
	}
}

// TestProposalStreamer_UnreachableLeaderStillConsumesCommand verifies
// an unreachable leader reports ClusterUnreachable and the command is
// still consumed.
func TestProposalStreamer_UnreachableLeaderStillConsumesCommand(t *testing.T) {
	peers := NewAlivePeers()
	leaderView := NewLeaderView()
	leaderView.Store(&types.Round{RoundNum: 5, Leader: 4})

	queue := NewCommandQueue()
	queue.Enqueue(types.NewPut("x", "1"))

	bus := NewEventBus(silentLogger{})
	streamer := NewProposalStreamer(queue, peers, leaderView, bus, nil)
	streamer.tick()

	if queue.Len() != 0 {
		t.Error("expected the command to be consumed from the queue even though unreachable")
	}
	expectClusterUnreachable(t, bus)
}

// TestProposalStreamer_NoLeaderKnown verifies proposing with no round
// reported yet does not panic and reports unreachable.
func TestProposalStreamer_NoLeaderKnown(t *testing.T) {
	peers := NewAlivePeers()
	leaderView := NewLeaderView()
	queue := NewCommandQueue()
	queue.Enqueue(types.NewPut("x", "1"))

	bus := NewEventBus(silentLogger{})
	streamer := NewProposalStreamer(queue, peers, leaderView, bus, nil)
	streamer.tick()

	if queue.Len() != 0 {
		t.Error("expected the command to be consumed from the queue")
	}
	expectClusterUnreachable(t, bus)
}

func expectClusterUnreachable(t *testing.T, bus *EventBus) {
	t.Helper()
	select {
	case ev := <-bus.events:
		if _, ok := ev.(types.ClusterUnreachableUIEvent); !ok {
			t.Errorf("expected ClusterUnreachableUIEvent, got %T", ev)
		}
	default:
		t.Error("expected a ClusterUnreachableUIEvent on the bus")
	}
}
