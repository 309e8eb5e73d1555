package core

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// LinkProxy owns exactly one PairPort: it listens for the single
// replica that dials this port, relays every newline frame it reads
// from that replica into the Router's ingress channel (tagged with its
// peer port as destination), and writes every frame the Router
// publishes for this port back out to the replica.
type LinkProxy struct {
	port     types.PairPort
	peerPort types.PairPort
	listener net.Listener
	bus      *LinkBus
	ingress  chan<- Frame
	log      types.Logger
}

// ListenLinkProxy binds the listener for port (a startup-time, fatal
// operation) and returns a LinkProxy ready to Serve.
func ListenLinkProxy(port, peerPort types.PairPort, bus *LinkBus, ingress chan<- Frame, log types.Logger) (*LinkProxy, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", int(port)))
	if err != nil {
		return nil, fmt.Errorf("bind mesh port %d: %w", port, err)
	}
	return &LinkProxy{
		port:     port,
		peerPort: peerPort,
		listener: listener,
		bus:      bus,
		ingress:  ingress,
		log:      log,
	}, nil
}

// Serve accepts exactly one connection (the replica initiates) and then
// runs the inbound/outbound relay until ctx is cancelled or the
// connection drops. Intended to be run via an Invoker so the
// coordinator can track its lifetime; blocks on Accept, so callers
// typically spawn it.
func (p *LinkProxy) Serve(ctx context.Context, invoker Invoker) {
	conn, err := p.listener.Accept()
	if err != nil {
		select {
		case <-ctx.Done():
			return
		default:
			p.log.Errorf("mesh port %d: accept failed: %v", p.port, err)
			return
		}
	}

	invoker.Spawn(func() { p.outbound(ctx, conn) })
	p.inbound(ctx, conn)
}

// Close stops accepting new connections on this port.
func (p *LinkProxy) Close() error {
	return p.listener.Close()
}

// inbound reads newline-delimited frames from the replica and pushes
// them to the router, tagged with this port as source and its mutual
// partner as destination. A zero-byte read is EOF and terminates the
// task.
func (p *LinkProxy) inbound(ctx context.Context, conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		data, err := reader.ReadBytes('\n')
		if len(data) > 0 {
			frame := Frame{SrcPort: p.port, DstPort: p.peerPort, Bytes: data}
			select {
			case p.ingress <- frame:
			default:
				p.log.Warnf("mesh port %d: ingress channel full, dropping frame", p.port)
			}
		}
		if err != nil {
			// EOF or any other read error ends the task; the coordinator
			// never interprets mesh-frame contents, so no further
			// diagnosis is attempted.
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// outbound subscribes to this port's LinkBus channel and writes every
// frame it receives to the replica. Write errors are swallowed: the
// replica may have died, and its liveness is reported via the client
// socket path, not here.
func (p *LinkProxy) outbound(ctx context.Context, conn net.Conn) {
	ch := p.bus.Subscribe(p.port)
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			if _, err := conn.Write(data); err != nil {
				return
			}
		}
	}
}
