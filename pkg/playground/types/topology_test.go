package types

import "testing"

func TestNewTopology_DerivesPortsForFiveNodes(t *testing.T) {
	topology, err := NewTopology([]NodeID{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(topology.PairPorts()) != 20 {
		t.Errorf("expected 20 mesh listeners, found %d", len(topology.PairPorts()))
	}
	if len(topology.ClientPorts) != 5 {
		t.Errorf("expected 5 client listeners, found %d", len(topology.ClientPorts))
	}

	if got := PairPortFor(1, 2); got != 8012 {
		t.Errorf("P(1,2) = %d, want 8012", got)
	}
	if got := topology.PeerPort[8012]; got != 8021 {
		t.Errorf("peer_port[8012] = %d, want 8021", got)
	}
	if got := topology.PortToPID[8012]; got != 1 {
		t.Errorf("port_to_pid[8012] = %d, want 1", got)
	}
	if got := topology.PortToPID[8001]; got != 1 {
		t.Errorf("port_to_pid[8001] = %d, want 1", got)
	}
}

func TestNewTopology_PeerPortIsInvolution(t *testing.T) {
	topology, err := NewTopology([]NodeID{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for port, peer := range topology.PeerPort {
		if topology.PeerPort[peer] != port {
			t.Errorf("peer_port is not an involution at %d: peer_port[%d]=%d, peer_port[%d]=%d", port, port, peer, peer, topology.PeerPort[peer])
		}
	}
}

func TestNewTopology_RejectsEmptySet(t *testing.T) {
	if _, err := NewTopology(nil); err == nil {
		t.Error("expected an error for an empty node set")
	}
}

func TestNewTopology_RejectsZeroID(t *testing.T) {
	if _, err := NewTopology([]NodeID{0, 1}); err == nil {
		t.Error("expected an error for a zero node id")
	}
}

func TestNewTopology_RejectsDuplicateID(t *testing.T) {
	if _, err := NewTopology([]NodeID{1, 1, 2}); err == nil {
		t.Error("expected an error for a duplicate node id")
	}
}
