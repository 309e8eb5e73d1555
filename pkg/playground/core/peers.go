package core

import (
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// AlivePeers is the node_id -> client-socket registry. An entry exists
// from accept to EOF/error. The Proposal Streamer dispatches to the
// leader through this registry.
//
// The single mutex is held across a full Write; because only one
// sender targets any given peer at a time in practice (the streamer
// proposes one command per tick), this does not serialize unrelated
// peers against each other in any way that matters here.
type AlivePeers struct {
	mu    sync.Mutex
	conns map[types.NodeID]net.Conn
}

// NewAlivePeers builds an empty registry.
func NewAlivePeers() *AlivePeers {
	return &AlivePeers{conns: make(map[types.NodeID]net.Conn)}
}

// Join records the write-half for node, created on accept.
func (a *AlivePeers) Join(node types.NodeID, conn net.Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.conns[node] = conn
}

// Remove drops node's entry, called on EOF/error.
func (a *AlivePeers) Remove(node types.NodeID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.conns, node)
}

// Contains reports whether node currently has a live client socket.
func (a *AlivePeers) Contains(node types.NodeID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.conns[node]
	return ok
}

// Write sends data to node's client socket under the registry lock.
func (a *AlivePeers) Write(node types.NodeID, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	conn, ok := a.conns[node]
	if !ok {
		return fmt.Errorf("node %d is not alive", node)
	}
	_, err := conn.Write(data)
	return err
}

// Len returns the number of currently alive peers.
func (a *AlivePeers) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}

// Nodes returns the currently alive node ids, sorted ascending.
func (a *AlivePeers) Nodes() []types.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	nodes := make([]types.NodeID, 0, len(a.conns))
	for n := range a.conns {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}
