package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// ConsoleSink is a core.UISink that prints every UIEvent to stdout,
// colored by severity the way linkerd2's CLI colors its own output.
type ConsoleSink struct {
	info  *color.Color
	warn  *color.Color
	bad   *color.Color
	muted *color.Color
}

// NewConsoleSink builds a ConsoleSink writing to color.Output (resolves
// to os.Stdout, or a Windows-safe wrapper via go-colorable).
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		bad:   color.New(color.FgRed),
		muted: color.New(color.FgHiBlack),
	}
}

// HandleUI implements core.UISink.
func (s *ConsoleSink) HandleUI(event types.UIEvent) {
	switch e := event.(type) {
	case types.SnapshotUIEvent:
		s.muted.Printf("snapshot: alive=%v partitions=%v max_round=%v\n", e.Snapshot.AliveNodes, e.Snapshot.PartitionsUndirected, e.Snapshot.MaxRound)
	case types.DecidedIndexUIEvent:
		s.info.Printf("node %d decided index %d\n", e.Node, e.Index)
	case types.ReadResultUIEvent:
		if e.Value == nil {
			s.info.Printf("node %d: %s -> <no value>\n", e.Node, e.Key)
		} else {
			s.info.Printf("node %d: %s -> %s\n", e.Node, e.Key, *e.Value)
		}
	case types.ProposalStatusUIEvent:
		s.muted.Printf("queued=%d batch_total=%d\n", e.Queued, e.BatchTotal)
	case types.PeerCrashedUIEvent:
		s.warn.Printf("peer %d crashed\n", e.Node)
	case types.ClusterUnreachableUIEvent:
		s.bad.Println("cluster unreachable: no leader to propose to")
	case types.NoSuchNodeUIEvent:
		s.bad.Printf("no such node: %d\n", e.Node)
	case types.DebugLogUIEvent:
		fmt.Println(e.Line)
	case types.ClearConsoleUIEvent:
		fmt.Print("\033[H\033[2J")
	case types.ExitUIEvent:
		s.info.Println("exiting")
	}
}
