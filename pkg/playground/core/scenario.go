package core

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// constrainedWaitDuration is the non-cancellable settle window between
// stranding next_leader and re-installing its quorum path.
// current_leader is captured before the wait rather than after — see
// DESIGN.md's Open Questions: a scenario re-issued during this window
// is allowed to race with the one in flight, and that race is
// preserved on purpose.
const constrainedWaitDuration = 3 * time.Second

// constrainedPutCount is the number of random Puts enqueued while
// next_leader is stranded.
const constrainedPutCount = 10

// SnapshotFunc produces the current consolidated cluster view, used by
// the Scenario Engine to emit a snapshot after each macro settles.
type SnapshotFunc func() types.ClusterSnapshot

// ChainedPairs is the fixed pair set the `chained` macro installs,
// assuming the |N| = 5 topology the scenario engine is documented to
// require.
var ChainedPairs = []types.UnorderedPair{
	types.NewUnorderedPair(1, 2),
	types.NewUnorderedPair(1, 3),
	types.NewUnorderedPair(1, 4),
	types.NewUnorderedPair(2, 4),
	types.NewUnorderedPair(2, 5),
	types.NewUnorderedPair(3, 5),
}

// ScenarioEngine runs the four pre-canned partition macros over the
// shared PartitionSet and CommandQueue.
type ScenarioEngine struct {
	topology   *types.Topology
	partitions *PartitionSet
	queue      *CommandQueue
	leaderView *LeaderView
	bus        *EventBus
	invoker    Invoker
	snapshot   SnapshotFunc
	rng        *rand.Rand
}

// NewScenarioEngine builds an engine over the shared coordinator state.
// invoker is used only by `constrained`, whose 3s settle wait must not
// block the dispatcher goroutine that calls Run.
func NewScenarioEngine(topology *types.Topology, partitions *PartitionSet, queue *CommandQueue, leaderView *LeaderView, bus *EventBus, invoker Invoker, snapshot SnapshotFunc) *ScenarioEngine {
	return &ScenarioEngine{
		topology:   topology,
		partitions: partitions,
		queue:      queue,
		leaderView: leaderView,
		bus:        bus,
		invoker:    invoker,
		snapshot:   snapshot,
		rng:        rand.New(rand.NewSource(1)),
	}
}

// Run dispatches by macro name. Unknown names are reported back to the
// caller, which the Coordinator surfaces as an operator-facing log
// line rather than treating it as fatal.
func (s *ScenarioEngine) Run(name string) error {
	switch name {
	case "restore":
		s.restore()
	case "qloss":
		s.qloss()
	case "constrained":
		s.constrained()
	case "chained":
		s.chained()
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	return nil
}

func (s *ScenarioEngine) restore() {
	s.partitions.Clear()
	s.emitSnapshot()
}

// qloss disconnects next_leader from every other configured node,
// stranding it in a minority of one while leaving every other pair
// connected.
func (s *ScenarioEngine) qloss() {
	next := s.nextLeader()
	s.installQlossLocked(next)
	s.emitSnapshot()
}

// installQlossLocked clears the partition set and then disconnects
// next from every other configured node, leaving the rest of the mesh
// fully connected.
func (s *ScenarioEngine) installQlossLocked(next types.NodeID) {
	s.partitions.Clear()
	s.partitions.SetAllFrom(next, false)
}

func (s *ScenarioEngine) chained() {
	s.partitions.InstallExactly(ChainedPairs)
	s.emitSnapshot()
}

// constrained strands next_leader, lets the current leader commit
// without it, then gives next_leader a quorum path that excludes the
// current leader. The 3s wait runs off the dispatcher goroutine;
// current_leader is captured before the wait, not after, by design
// (see DESIGN.md Open Questions). The settle step only touches the
// PartitionSet (independently synchronized) and requests a snapshot
// through the bus rather than building one itself, since the
// Aggregator is only safe to read from the dispatcher goroutine.
func (s *ScenarioEngine) constrained() {
	current := s.leaderView.CurrentLeader()
	next := s.nextLeader()

	s.partitions.Clear()
	s.partitions.SetAllFrom(next, false)
	s.emitSnapshot()

	for i := 0; i < constrainedPutCount; i++ {
		s.queue.Enqueue(s.randomPut())
	}

	s.invoker.Spawn(func() {
		time.Sleep(constrainedWaitDuration)
		s.installQlossLocked(next)
		if current != nil {
			s.partitions.SetUndirected(next, *current, true)
		}
		s.bus.PublishControl(types.RequestSnapshotEvent{})
	})
}

// nextLeader approximates next_leader as the first configured node
// that is not the current leader — an acknowledged approximation, not
// the real next-elected leader (see DESIGN.md Open Questions).
func (s *ScenarioEngine) nextLeader() types.NodeID {
	current := s.leaderView.CurrentLeader()
	for _, n := range s.topology.Nodes {
		if current == nil || n != *current {
			return n
		}
	}
	return s.topology.Nodes[0]
}

func (s *ScenarioEngine) randomPut() types.KVCommand {
	key := fmt.Sprintf("k%d", s.rng.Intn(1000))
	value := fmt.Sprintf("v%d", s.rng.Intn(1000))
	return types.NewPut(key, value)
}

func (s *ScenarioEngine) emitSnapshot() {
	if s.snapshot == nil {
		return
	}
	s.bus.PublishUI(types.SnapshotUIEvent{Snapshot: s.snapshot()})
}
