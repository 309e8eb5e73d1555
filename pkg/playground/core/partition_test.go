package core

import (
	"testing"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

func newTestTopology(t *testing.T) *types.Topology {
	t.Helper()
	topology, err := types.NewTopology([]types.NodeID{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return topology
}

// TestPartitionSet_Symmetric verifies disconnecting A from B also
// disconnects B from A.
func TestPartitionSet_Symmetric(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	partitions.SetUndirected(1, 2, false)

	if !partitions.Contains(types.PairPortFor(1, 2)) {
		t.Error("expected P(1,2) to be partitioned")
	}
	if !partitions.Contains(types.PairPortFor(2, 1)) {
		t.Error("expected P(2,1) to be partitioned")
	}
}

// TestPartitionSet_ConnectDisconnectRoundTrip verifies `connection A B
// false` then `true` restores the prior state.
func TestPartitionSet_ConnectDisconnectRoundTrip(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	before := partitions.Snapshot()

	partitions.SetUndirected(1, 2, false)
	partitions.SetUndirected(1, 2, true)

	after := partitions.Snapshot()
	if len(before) != len(after) {
		t.Fatalf("expected the set to return to its prior size, got %d vs %d", len(before), len(after))
	}
}

func TestPartitionSet_SetAllFromTogglesNMinus1Pairs(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	partitions.SetAllFrom(1, false)

	for _, n := range []types.NodeID{2, 3, 4, 5} {
		if !partitions.Contains(types.PairPortFor(1, n)) {
			t.Errorf("expected P(1,%d) to be partitioned", n)
		}
		if !partitions.Contains(types.PairPortFor(n, 1)) {
			t.Errorf("expected P(%d,1) to be partitioned", n)
		}
	}
}

func TestPartitionSet_Clear(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	partitions.SetUndirected(1, 2, false)
	if !partitions.Clear() {
		t.Error("expected Clear to report a change")
	}
	if partitions.Contains(types.PairPortFor(1, 2)) {
		t.Error("expected the set to be empty after Clear")
	}
}

// TestPartitionSet_PairPortDisambiguatesAdjacentPorts verifies two
// distinct pair ports aren't confused with each other.
func TestPartitionSet_PairPortDisambiguatesAdjacentPorts(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	partitions.SetUndirected(1, 2, false)

	if !partitions.Contains(8012) {
		t.Error("expected 8012 to be partitioned")
	}
	if partitions.Contains(8013) {
		t.Error("expected 8013 to remain connected")
	}
}

// TestPartitionSet_InstallExactly_ReplacesSetWithChainedPairs verifies
// InstallExactly replaces the partition set with exactly the given pairs.
func TestPartitionSet_InstallExactly_ReplacesSetWithChainedPairs(t *testing.T) {
	partitions := NewPartitionSet(newTestTopology(t))
	partitions.InstallExactly(ChainedPairs)

	want := map[types.PairPort]bool{
		8012: true, 8021: true,
		8013: true, 8031: true,
		8014: true, 8041: true,
		8024: true, 8042: true,
		8025: true, 8052: true,
		8035: true, 8053: true,
	}
	for port, expect := range want {
		if partitions.Contains(port) != expect {
			t.Errorf("port %d: expected partitioned=%v", port, expect)
		}
	}
	if partitions.Contains(8015) {
		t.Error("port 8015 should not be partitioned by the chained scenario")
	}
}
