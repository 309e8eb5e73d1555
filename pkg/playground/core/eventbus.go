package core

import (
	"context"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// eventBusBufferSize is sized generously so that normal operator and
// replica traffic never has to exercise the drop path below.
const eventBusBufferSize = 100000

// ControlHandler processes a single ControlEvent, mutating
// Coordinator-owned state.
type ControlHandler interface {
	HandleControl(ctx context.Context, event types.ControlEvent)
}

// UISink receives every UIEvent published on the bus. Concrete sinks
// (console, websocket push) implement this; the UI itself is treated
// as an external collaborator with no load-bearing semantics, so this
// interface is intentionally small.
type UISink interface {
	HandleUI(event types.UIEvent)
}

// EventBus is the single multi-producer channel carrying both
// ControlEvent and UIEvent values. Every producer in the system - CLI,
// Link Proxies indirectly via the Coordinator, the Client API
// Multiplexer, the Proposal Streamer, the Scenario Engine - publishes
// onto it; a single Dispatcher goroutine is the only consumer, which
// is what lets the partition set, aggregator and command queue avoid
// cross-component locking beyond their own guards.
type EventBus struct {
	events chan interface{}
	log    types.Logger
}

// NewEventBus allocates the bus.
func NewEventBus(log types.Logger) *EventBus {
	return &EventBus{
		events: make(chan interface{}, eventBusBufferSize),
		log:    log,
	}
}

// PublishControl enqueues a ControlEvent. Non-blocking: if the bus is
// saturated the event is dropped and logged, rather than stalling the
// publisher.
func (b *EventBus) PublishControl(event types.ControlEvent) {
	b.publish(event)
}

// PublishUI enqueues a UIEvent.
func (b *EventBus) PublishUI(event types.UIEvent) {
	b.publish(event)
}

func (b *EventBus) publish(event interface{}) {
	select {
	case b.events <- event:
	default:
		b.log.Warnf("event bus full, dropping %T", event)
	}
}

// Dispatcher is the single consumer of the Event Bus: it routes each
// value to the Coordinator's control handler or to the UI sink,
// serializing every control-plane state transition.
type Dispatcher struct {
	bus     *EventBus
	control ControlHandler
	ui      UISink
}

// NewDispatcher wires a Dispatcher to its bus, control handler and UI sink.
func NewDispatcher(bus *EventBus, control ControlHandler, ui UISink) *Dispatcher {
	return &Dispatcher{bus: bus, control: control, ui: ui}
}

// Run consumes events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.bus.events:
			if !ok {
				return
			}
			d.route(ctx, ev)
		}
	}
}

func (d *Dispatcher) route(ctx context.Context, ev interface{}) {
	switch e := ev.(type) {
	case types.ControlEvent:
		d.control.HandleControl(ctx, e)
	case types.UIEvent:
		d.ui.HandleUI(e)
	}
}
