package core

import (
	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// ingressBufferSize and linkBufferSize size the router ingress channel
// and the per-port outbound channels generously enough that normal
// traffic never hits the drop path.
const (
	ingressBufferSize = 10000
	linkBufferSize    = 10000
)

// Frame is one newline-delimited byte frame observed on a mesh port,
// tagged with its source and (pre-resolved) destination port.
type Frame struct {
	SrcPort types.PairPort
	DstPort types.PairPort
	Bytes   []byte
}

// LinkBus is the per-port outbound fan-out the Central Router publishes
// onto and each Link Proxy's writer goroutine subscribes to. Every
// derived PairPort has exactly one subscriber (the proxy bound to that
// port), so a single buffered channel per port suffices without the
// overhead of true multi-subscriber broadcast, which nothing here needs.
type LinkBus struct {
	channels map[types.PairPort]chan []byte
}

// NewLinkBus allocates one buffered channel per PairPort in the topology.
func NewLinkBus(topology *types.Topology) *LinkBus {
	bus := &LinkBus{channels: make(map[types.PairPort]chan []byte, len(topology.PeerPort))}
	for port := range topology.PeerPort {
		bus.channels[port] = make(chan []byte, linkBufferSize)
	}
	return bus
}

// Subscribe returns the channel a Link Proxy on port p should drain.
func (b *LinkBus) Subscribe(port types.PairPort) <-chan []byte {
	return b.channels[port]
}

// Publish delivers data to port dst's channel without blocking. If the
// channel is full the frame is dropped, identical in effect to a
// partition event from the replica's perspective.
func (b *LinkBus) Publish(dst types.PairPort, data []byte) (delivered bool) {
	ch, ok := b.channels[dst]
	if !ok {
		return false
	}
	select {
	case ch <- data:
		return true
	default:
		return false
	}
}
