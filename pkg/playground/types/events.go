package types

// ControlEvent is anything the dispatcher routes to the Coordinator's
// control handler: operator commands from the CLI, and the lifecycle
// notifications (peer join/crash, round/happiness self-reports) that
// must update Coordinator-owned state. Concrete types implement
// controlEvent() as a marker.
type ControlEvent interface {
	controlEvent()
}

// UIEvent is anything the dispatcher forwards to the UI sink: snapshot
// pushes, per-request results, and operator-facing log lines. Concrete
// types implement uiEvent() as a marker.
type UIEvent interface {
	uiEvent()
}

// Initialize triggers topology derivation and listener startup. It is
// enqueued once, by cmd/coordinator, before anything else runs.
type Initialize struct{}

func (Initialize) controlEvent() {}

// KVCommandEvent carries an operator-issued command. TargetPID is nil
// when no explicit node was named ("propose to the leader").
type KVCommandEvent struct {
	Cmd       KVCommand
	TargetPID *NodeID
}

func (KVCommandEvent) controlEvent() {}

// SetConnectionEvent implements the `connection` CLI command. To is nil
// for the "disconnect from everyone" form.
type SetConnectionEvent struct {
	From      NodeID
	To        *NodeID
	Connected bool
}

func (SetConnectionEvent) controlEvent() {}

// StartBatchingProposeEvent implements `batch N`: enqueue N random Puts.
type StartBatchingProposeEvent struct {
	N uint64
}

func (StartBatchingProposeEvent) controlEvent() {}

// ScenarioEvent implements `scenario <name>`.
type ScenarioEvent struct {
	Name string
}

func (ScenarioEvent) controlEvent() {}

// ClearConsoleControlEvent implements the `clear` CLI command.
type ClearConsoleControlEvent struct{}

func (ClearConsoleControlEvent) controlEvent() {}

// PeerJoinedEvent fires when a replica's client socket is accepted.
type PeerJoinedEvent struct {
	Node NodeID
}

func (PeerJoinedEvent) controlEvent() {}

// PeerCrashedControlEvent fires on client-socket EOF or read error,
// alongside a PeerCrashedUIEvent on the UI channel.
type PeerCrashedControlEvent struct {
	Node NodeID
}

func (PeerCrashedControlEvent) controlEvent() {}

// RequestSnapshotEvent asks the dispatcher to recompute and publish a
// cluster snapshot. Background goroutines that must not touch the
// Aggregator directly (it is only safe to read and mutate from the
// dispatcher goroutine) publish this instead of building a snapshot
// themselves.
type RequestSnapshotEvent struct{}

func (RequestSnapshotEvent) controlEvent() {}

// NewRoundControlEvent carries a replica's NewRound self-report to the aggregator.
type NewRoundControlEvent struct {
	Node  NodeID
	Round *Round // nil when the replica reported no round yet
}

func (NewRoundControlEvent) controlEvent() {}

// HappinessControlEvent carries a replica's liveness self-report.
type HappinessControlEvent struct {
	Node NodeID
	Flag bool
}

func (HappinessControlEvent) controlEvent() {}

// --- UI events ---

// SnapshotUIEvent pushes a consolidated cluster view.
type SnapshotUIEvent struct {
	Snapshot ClusterSnapshot
}

func (SnapshotUIEvent) uiEvent() {}

// DecidedIndexUIEvent reports a replica's Decided self-report.
type DecidedIndexUIEvent struct {
	Node  NodeID
	Index uint64
}

func (DecidedIndexUIEvent) uiEvent() {}

// ReadResultUIEvent reports a replica's Get self-report.
type ReadResultUIEvent struct {
	Node  NodeID
	Key   string
	Value *string
}

func (ReadResultUIEvent) uiEvent() {}

// ProposalStatusUIEvent reports the Proposal Streamer's per-tick progress.
type ProposalStatusUIEvent struct {
	Queued     uint64
	BatchTotal uint64
}

func (ProposalStatusUIEvent) uiEvent() {}

// PeerCrashedUIEvent mirrors PeerCrashedControlEvent onto the UI channel.
type PeerCrashedUIEvent struct {
	Node NodeID
}

func (PeerCrashedUIEvent) uiEvent() {}

// ClusterUnreachableUIEvent fires when the Proposal Streamer cannot
// reach any leader (no leader known, or leader not in AlivePeer).
type ClusterUnreachableUIEvent struct{}

func (ClusterUnreachableUIEvent) uiEvent() {}

// NoSuchNodeUIEvent reports an operator error: an unknown node id was named.
type NoSuchNodeUIEvent struct {
	Node NodeID
}

func (NoSuchNodeUIEvent) uiEvent() {}

// DebugLogUIEvent is a free-form operator-facing log line.
type DebugLogUIEvent struct {
	Line string
}

func (DebugLogUIEvent) uiEvent() {}

// ClearConsoleUIEvent asks the UI sink to clear its screen/log area.
type ClearConsoleUIEvent struct{}

func (ClearConsoleUIEvent) uiEvent() {}

// ExitUIEvent asks the UI sink (and process) to terminate.
type ExitUIEvent struct{}

func (ExitUIEvent) uiEvent() {}
