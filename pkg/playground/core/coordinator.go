package core

import (
	"context"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// Coordinator is the Event Bus's single ControlHandler: it owns every
// other component and is the only goroutine
// permitted to mutate the Partition Set's topology-derived peers, the
// Aggregator, the CommandQueue and the Scenario Engine's view of
// current_leader. Everything else (Router, Link Proxies, Client
// Sockets, the Proposal Streamer) only ever talks to the Coordinator
// through the Event Bus or through the narrow, independently
// synchronized types (PartitionSet, AlivePeers, LeaderView) it hands
// out at construction time.
type Coordinator struct {
	nodes   []types.NodeID
	invoker Invoker
	bus     *EventBus
	log     types.Logger

	routerMetrics   RouterMetrics
	streamerMetrics StreamerMetrics
	gaugeMetrics    GaugeMetrics

	topology   *types.Topology
	partitions *PartitionSet
	peers      *AlivePeers
	leaderView *LeaderView
	aggregator *Aggregator
	queue      *CommandQueue

	linkBus   *LinkBus
	router    *Router
	mesh      *Mesh
	clientMux *ClientMux
	streamer  *ProposalStreamer
	scenarios *ScenarioEngine
}

// NewCoordinator builds a Coordinator for the given configured node
// set. No listener is bound and no goroutine is started until
// HandleControl receives types.Initialize.
func NewCoordinator(nodes []types.NodeID, invoker Invoker, bus *EventBus, log types.Logger, routerMetrics RouterMetrics, streamerMetrics StreamerMetrics, gaugeMetrics GaugeMetrics) *Coordinator {
	if gaugeMetrics == nil {
		gaugeMetrics = noopGaugeMetrics{}
	}
	return &Coordinator{
		nodes:           nodes,
		invoker:         invoker,
		bus:             bus,
		log:             log,
		routerMetrics:   routerMetrics,
		streamerMetrics: streamerMetrics,
		gaugeMetrics:    gaugeMetrics,
	}
}

// GaugeMetrics receives a consolidated snapshot whenever the Cluster
// View Aggregator publishes one, to update the partition/alive-peer/
// max-round gauges.
type GaugeMetrics interface {
	ObserveSnapshot(snapshot types.ClusterSnapshot)
}

type noopGaugeMetrics struct{}

func (noopGaugeMetrics) ObserveSnapshot(types.ClusterSnapshot) {}

// HandleControl routes a single ControlEvent to the handler that owns
// the state it touches.
func (c *Coordinator) HandleControl(ctx context.Context, event types.ControlEvent) {
	switch e := event.(type) {
	case types.Initialize:
		c.initialize(ctx)
	case types.KVCommandEvent:
		c.handleKVCommand(e)
	case types.SetConnectionEvent:
		c.handleSetConnection(e)
	case types.StartBatchingProposeEvent:
		c.handleBatch(e)
	case types.ScenarioEvent:
		c.handleScenario(e)
	case types.ClearConsoleControlEvent:
		c.bus.PublishUI(types.ClearConsoleUIEvent{})
	case types.PeerJoinedEvent:
		c.emitSnapshot()
	case types.PeerCrashedControlEvent:
		c.emitSnapshot()
	case types.NewRoundControlEvent:
		c.handleNewRound(e)
	case types.HappinessControlEvent:
		c.aggregator.SetHappiness(e.Node, e.Flag)
		c.emitSnapshot()
	case types.RequestSnapshotEvent:
		c.emitSnapshot()
	default:
		c.log.Warnf("unhandled control event %T", event)
	}
}

// initialize derives the topology from the configured node set and
// brings up every listener and background goroutine. A derivation or
// bind failure is a configuration/startup fault and is fatal.
func (c *Coordinator) initialize(ctx context.Context) {
	topology, err := types.NewTopology(c.nodes)
	if err != nil {
		c.log.Fatalf("derive topology: %v", err)
		return
	}
	c.topology = topology

	c.partitions = NewPartitionSet(topology)
	c.peers = NewAlivePeers()
	c.leaderView = NewLeaderView()
	c.aggregator = NewAggregator(topology, c.partitions, c.peers, c.leaderView)
	c.queue = NewCommandQueue()

	c.linkBus = NewLinkBus(topology)
	c.router = NewRouter(c.partitions, c.linkBus, c.log, c.routerMetrics)

	mesh, err := BindMesh(topology, c.linkBus, c.router.Ingress(), c.log)
	if err != nil {
		c.log.Fatalf("bind mesh: %v", err)
		return
	}
	c.mesh = mesh

	clientMux, err := BindClientMux(topology, c.peers, c.bus, c.log)
	if err != nil {
		c.log.Fatalf("bind client multiplexer: %v", err)
		return
	}
	c.clientMux = clientMux

	c.streamer = NewProposalStreamer(c.queue, c.peers, c.leaderView, c.bus, c.streamerMetrics)
	c.scenarios = NewScenarioEngine(topology, c.partitions, c.queue, c.leaderView, c.bus, c.invoker, c.aggregator.Snapshot)

	c.invoker.Spawn(func() { c.router.Run(ctx) })
	c.mesh.Serve(ctx, c.invoker)
	c.clientMux.Serve(ctx, c.invoker)
	c.invoker.Spawn(func() { c.streamer.Run(ctx) })

	c.emitSnapshot()
}

// handleKVCommand implements the put/get/delete operator commands. A
// named target pid is sent directly to that replica's client socket;
// with no target the command is enqueued for the Proposal Streamer to
// deliver to whichever replica is currently believed to be leader.
func (c *Coordinator) handleKVCommand(e types.KVCommandEvent) {
	if e.TargetPID == nil {
		c.queue.Enqueue(e.Cmd)
		return
	}

	target := *e.TargetPID
	if !c.isKnownNode(target) {
		c.bus.PublishUI(types.NoSuchNodeUIEvent{Node: target})
		return
	}

	data, err := types.EncodeRequest(e.Cmd)
	if err != nil {
		c.log.Errorf("encode request for node %d: %v", target, err)
		return
	}
	if err := c.peers.Write(target, data); err != nil {
		c.bus.PublishUI(types.ClusterUnreachableUIEvent{})
	}
}

// handleSetConnection implements the `connection` command: a nil To
// disconnects/reconnects the From node from every other configured
// node at once.
func (c *Coordinator) handleSetConnection(e types.SetConnectionEvent) {
	if !c.isKnownNode(e.From) {
		c.bus.PublishUI(types.NoSuchNodeUIEvent{Node: e.From})
		return
	}

	var changed bool
	if e.To != nil {
		if !c.isKnownNode(*e.To) {
			c.bus.PublishUI(types.NoSuchNodeUIEvent{Node: *e.To})
			return
		}
		changed = c.partitions.SetUndirected(e.From, *e.To, e.Connected)
	} else {
		changed = c.partitions.SetAllFrom(e.From, e.Connected)
	}

	if changed {
		c.emitSnapshot()
	}
}

// handleBatch implements `batch N`: enqueue N random Puts.
func (c *Coordinator) handleBatch(e types.StartBatchingProposeEvent) {
	for i := uint64(0); i < e.N; i++ {
		c.queue.Enqueue(c.scenarios.randomPut())
	}
}

// handleScenario implements `scenario <name>`.
func (c *Coordinator) handleScenario(e types.ScenarioEvent) {
	if err := c.scenarios.Run(e.Name); err != nil {
		c.bus.PublishUI(types.DebugLogUIEvent{Line: err.Error()})
	}
}

// handleNewRound applies a replica's NewRound self-report: accepted
// iff strictly greater than max_round.
func (c *Coordinator) handleNewRound(e types.NewRoundControlEvent) {
	if c.aggregator.AcceptNewRound(e.Round) {
		c.emitSnapshot()
	}
}

func (c *Coordinator) isKnownNode(node types.NodeID) bool {
	for _, n := range c.topology.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

func (c *Coordinator) emitSnapshot() {
	snapshot := c.aggregator.Snapshot()
	c.gaugeMetrics.ObserveSnapshot(snapshot)
	c.bus.PublishUI(types.SnapshotUIEvent{Snapshot: snapshot})
}

// Close tears down every bound listener. Intended to be called after
// cancelling the context passed to initialize's goroutines and before
// invoker.Wait().
func (c *Coordinator) Close() {
	if c.mesh != nil {
		c.mesh.Close()
	}
	if c.clientMux != nil {
		c.clientMux.Close()
	}
}
