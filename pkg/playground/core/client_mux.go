package core

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// ClientSocket owns one replica's client API connection: it records
// the write-half in the AlivePeers registry, reads newline-delimited
// APIResponse envelopes, and translates them into events on the bus.
type ClientSocket struct {
	node     types.NodeID
	listener net.Listener
	peers    *AlivePeers
	bus      *EventBus
	log      types.Logger
}

// ListenClientSocket binds the client listener for node (fatal at
// startup on bind failure).
func ListenClientSocket(node types.NodeID, port types.ClientPort, peers *AlivePeers, bus *EventBus, log types.Logger) (*ClientSocket, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", int(port)))
	if err != nil {
		return nil, fmt.Errorf("bind client port %d: %w", port, err)
	}
	return &ClientSocket{node: node, listener: listener, peers: peers, bus: bus, log: log}, nil
}

// Close stops accepting new connections on this port.
func (c *ClientSocket) Close() error {
	return c.listener.Close()
}

// Serve accepts exactly one connection and then reads it until EOF or
// any other read error, which is reported as a crash. Malformed lines
// are skipped and never end the loop. Intended to be run via an
// Invoker.
func (c *ClientSocket) Serve(ctx context.Context) {
	conn, err := c.listener.Accept()
	if err != nil {
		select {
		case <-ctx.Done():
			return
		default:
			c.log.Errorf("client port for node %d: accept failed: %v", c.node, err)
			return
		}
	}

	c.peers.Join(c.node, conn)
	c.bus.PublishControl(types.PeerJoinedEvent{Node: c.node})

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			c.handleLine(line)
		}
		if err != nil {
			c.crash()
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (c *ClientSocket) crash() {
	c.peers.Remove(c.node)
	c.bus.PublishUI(types.PeerCrashedUIEvent{Node: c.node})
	c.bus.PublishControl(types.PeerCrashedControlEvent{Node: c.node})
}

func (c *ClientSocket) handleLine(line []byte) {
	resp, err := types.ParseResponse(line)
	if err != nil {
		// Malformed envelope: ignore the line, do not close the peer.
		c.log.Warnf("node %d: malformed envelope: %v", c.node, err)
		return
	}

	switch resp.Kind {
	case types.ResponseDecided:
		c.bus.PublishUI(types.DecidedIndexUIEvent{Node: c.node, Index: resp.DecidedIndex})
	case types.ResponseGet:
		c.bus.PublishUI(types.ReadResultUIEvent{Node: c.node, Key: resp.GetKey, Value: resp.GetValue})
	case types.ResponseNewRound:
		c.bus.PublishControl(types.NewRoundControlEvent{Node: c.node, Round: resp.NewRound})
	case types.ResponseHappiness:
		c.bus.PublishControl(types.HappinessControlEvent{Node: c.node, Flag: resp.HappinessFlag})
	case types.ResponseUnknown:
		// No known variant matched; nothing to forward.
	}
}

// ClientMux owns one ClientSocket per configured node.
type ClientMux struct {
	sockets []*ClientSocket
}

// BindClientMux binds every client listener up front.
func BindClientMux(topology *types.Topology, peers *AlivePeers, bus *EventBus, log types.Logger) (*ClientMux, error) {
	mux := &ClientMux{}
	for _, node := range topology.Nodes {
		port := types.ClientPortFor(node)
		socket, err := ListenClientSocket(node, port, peers, bus, log)
		if err != nil {
			mux.Close()
			return nil, err
		}
		mux.sockets = append(mux.sockets, socket)
	}
	return mux, nil
}

// Serve starts every socket's accept+read loop through invoker.
func (m *ClientMux) Serve(ctx context.Context, invoker Invoker) {
	for _, socket := range m.sockets {
		socket := socket
		invoker.Spawn(func() { socket.Serve(ctx) })
	}
}

// Close stops every listener.
func (m *ClientMux) Close() {
	for _, socket := range m.sockets {
		_ = socket.Close()
	}
}
