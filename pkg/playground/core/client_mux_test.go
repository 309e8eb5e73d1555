package core

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// TestClientSocket_HandleLine_NewRound verifies a replica's NewRound
// self-report reaches the bus as a control event.
func TestClientSocket_HandleLine_NewRound(t *testing.T) {
	bus := NewEventBus(silentLogger{})
	socket := &ClientSocket{node: 3, peers: NewAlivePeers(), bus: bus, log: silentLogger{}}

	socket.handleLine([]byte(`{"APIResponse":{"NewRound":{"round_num":7,"leader":2}}}` + "\n"))

	select {
	case ev := <-bus.events:
		round, ok := ev.(types.NewRoundControlEvent)
		if !ok {
			t.Fatalf("expected NewRoundControlEvent, got %T", ev)
		}
		if round.Node != 3 || round.Round == nil || round.Round.RoundNum != 7 || round.Round.Leader != 2 {
			t.Errorf("unexpected event: %+v", round)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a NewRoundControlEvent on the bus")
	}
}

// TestClientSocket_HandleLine_MalformedIsIgnored verifies a malformed
// envelope is ignored: the line is dropped and the peer stays open.
func TestClientSocket_HandleLine_MalformedIsIgnored(t *testing.T) {
	bus := NewEventBus(silentLogger{})
	socket := &ClientSocket{node: 3, peers: NewAlivePeers(), bus: bus, log: silentLogger{}}

	socket.handleLine([]byte("not json\n"))

	select {
	case ev := <-bus.events:
		t.Fatalf("expected no event for a malformed line, got %T", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestListenClientSocket_AcceptJoinAndCrash exercises the accept->join
// ->crash lifecycle over a real listener.
func TestListenClientSocket_AcceptJoinAndCrash(t *testing.T) {
	peers := NewAlivePeers()
	bus := NewEventBus(silentLogger{})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	socket := &ClientSocket{node: 3, listener: listener, peers: peers, bus: bus, log: silentLogger{}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan struct{})
	go func() { socket.Serve(ctx); close(serveDone) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitForControlEvent(t, bus, func(ev interface{}) bool {
		_, ok := ev.(types.PeerJoinedEvent)
		return ok
	})

	if !peers.Contains(3) {
		t.Error("expected node 3 to be registered as alive")
	}

	conn.Close()

	select {
	case <-serveDone:
	case <-time.After(time.Second):
		t.Fatal("expected Serve to return after the peer closes")
	}

	if peers.Contains(3) {
		t.Error("expected node 3 to be removed after EOF")
	}
}

func waitForControlEvent(t *testing.T, bus *EventBus, match func(interface{}) bool) {
	t.Helper()
	for {
		select {
		case ev := <-bus.events:
			if match(ev) {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("expected a matching event on the bus")
		}
	}
}
