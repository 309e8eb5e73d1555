package core

import (
	"context"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// RouterMetrics receives forward/drop counts from the Central Router.
// Kept as a minimal interface here (rather than importing
// pkg/playground/metrics directly) so core has no dependency on the
// metrics package; metrics.Collector satisfies this interface.
type RouterMetrics interface {
	ObserveForwarded(src, dst types.PairPort)
	ObserveDropped(src, dst types.PairPort)
}

type noopRouterMetrics struct{}

func (noopRouterMetrics) ObserveForwarded(types.PairPort, types.PairPort) {}
func (noopRouterMetrics) ObserveDropped(types.PairPort, types.PairPort)   {}

// Router is the single consumer of every Link Proxy's ingress frames.
// It is the sole place the partition drop decision is made, which is
// what keeps that policy trivially consistent: every frame is
// inspected by exactly one goroutine against exactly one PartitionSet.
type Router struct {
	partitions *PartitionSet
	bus        *LinkBus
	ingress    chan Frame
	log        types.Logger
	metrics    RouterMetrics
}

// NewRouter builds a Router. Call Run in its own goroutine (typically
// via an Invoker) to start consuming.
func NewRouter(partitions *PartitionSet, bus *LinkBus, log types.Logger, metrics RouterMetrics) *Router {
	if metrics == nil {
		metrics = noopRouterMetrics{}
	}
	return &Router{
		partitions: partitions,
		bus:        bus,
		ingress:    make(chan Frame, ingressBufferSize),
		log:        log,
		metrics:    metrics,
	}
}

// Ingress returns the channel Link Proxies push received frames onto.
// Pushing is done with a non-blocking select in the proxy so a full
// ingress channel drops the frame rather than stalling the reader.
func (r *Router) Ingress() chan<- Frame {
	return r.ingress
}

// Run drains the ingress channel until ctx is cancelled. For every
// frame: if its source port is currently partitioned, drop it
// silently; otherwise publish it on the destination port's LinkBus
// channel. Frames from the same source are processed, and therefore
// published, in arrival order; frames from different sources may
// interleave arbitrarily.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-r.ingress:
			if !ok {
				return
			}
			r.route(frame)
		}
	}
}

func (r *Router) route(frame Frame) {
	if r.partitions.Contains(frame.SrcPort) {
		r.metrics.ObserveDropped(frame.SrcPort, frame.DstPort)
		return
	}
	if r.bus.Publish(frame.DstPort, frame.Bytes) {
		r.metrics.ObserveForwarded(frame.SrcPort, frame.DstPort)
	} else {
		r.log.Warnf("dropping frame %d->%d: destination channel full", frame.SrcPort, frame.DstPort)
		r.metrics.ObserveDropped(frame.SrcPort, frame.DstPort)
	}
}
