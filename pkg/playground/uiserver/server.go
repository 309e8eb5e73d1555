// Package uiserver pushes every UIEvent published on the coordinator's
// Event Bus to connected dashboard clients over a websocket. Rendering
// widgets for the stream live in the dashboard client, not here.
package uiserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// envelope externally tags a UIEvent with a short snake_case label
// (see kindOf), so a dashboard client can switch on `kind` without
// needing Go reflection.
type envelope struct {
	Kind string        `json:"kind"`
	Body types.UIEvent `json:"body"`
}

const writeTimeout = 5 * time.Second

// Server is a UISink (pkg/playground/core.UISink) that broadcasts every
// event it receives to every currently connected websocket client.
type Server struct {
	log types.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer builds a Server accepting connections from any origin, the
// permissive default a local playground dashboard needs.
func NewServer(log types.Logger) *Server {
	return &Server{
		log:     log,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection as a broadcast target until it errors or closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("ui websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Drain and discard inbound frames; this is a push-only sink, but
	// reading is required to notice the peer closing the connection.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// HandleUI implements core.UISink: every event is JSON-encoded once and
// fanned out to every connected client.
func (s *Server) HandleUI(event types.UIEvent) {
	data, err := json.Marshal(envelope{Kind: kindOf(event), Body: event})
	if err != nil {
		s.log.Errorf("marshal ui event %T: %v", event, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn := conn
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Warnf("ui client write failed, dropping: %v", err)
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

func kindOf(event types.UIEvent) string {
	switch event.(type) {
	case types.SnapshotUIEvent:
		return "snapshot"
	case types.DecidedIndexUIEvent:
		return "decided_index"
	case types.ReadResultUIEvent:
		return "read_result"
	case types.ProposalStatusUIEvent:
		return "proposal_status"
	case types.PeerCrashedUIEvent:
		return "peer_crashed"
	case types.ClusterUnreachableUIEvent:
		return "cluster_unreachable"
	case types.NoSuchNodeUIEvent:
		return "no_such_node"
	case types.DebugLogUIEvent:
		return "debug_log"
	case types.ClearConsoleUIEvent:
		return "clear_console"
	case types.ExitUIEvent:
		return "exit"
	default:
		return "unknown"
	}
}
