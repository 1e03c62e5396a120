// Package dispatch delivers builder operations to live map views.
//
// A rendered widget normally replays its embedded operation log once. For
// server-driven updates, operations are instead published as messages on a
// per-map channel and applied by whoever is viewing that map. Two backends
// exist: an in-process bus for single-binary deployments and tests, and a
// Redis pub/sub bus for multi-instance deployments.
//
// Delivery is fire-and-forget: publishing never waits for viewers, and a
// map with no viewers drops messages silently. Within one subscription,
// messages arrive in publish order.
package dispatch

import (
	"context"

	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// Message is one operation addressed to a live map.
type Message struct {
	MapID  string `json:"mapId"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Handler consumes messages delivered to a subscription. Handlers run on
// the bus's delivery goroutine and must not block indefinitely.
type Handler func(Message)

// Bus carries operation messages between publishers and map viewers.
type Bus interface {
	// Publish sends a message to every subscriber of msg.MapID.
	Publish(ctx context.Context, msg Message) error

	// Subscribe registers h for messages addressed to mapID and returns a
	// function that cancels the subscription.
	Subscribe(ctx context.Context, mapID string, h Handler) (func(), error)

	// Close shuts the bus down and cancels all subscriptions.
	Close() error
}

// Proxy batches builder operations for a live map and flushes them over a
// bus. It exposes the full builder API via Map, so live updates go through
// the same validation as the initial render:
//
//	p := dispatch.NewProxy(bus, widget.MapID)
//	p.Map().ClearGroup("stations")
//	p.Map().AddMarkers(lats, lngs, "stations", "stations", opts)
//	if err := p.Flush(ctx); err != nil { ... }
type Proxy struct {
	bus     Bus
	m       *mapwidget.Map
	pending []mapwidget.Operation
}

// NewProxy creates a proxy addressing the live map with the given ID.
func NewProxy(bus Bus, mapID string) *Proxy {
	return &Proxy{
		bus: bus,
		m:   mapwidget.NewWithID(mapID, mapwidget.Options{}),
	}
}

// Map returns the builder handle operations are staged on.
func (p *Proxy) Map() *mapwidget.Map { return p.m }

// Flush publishes the staged operations in order and clears the stage.
// A sticky builder error aborts the flush with nothing published; staged
// operations survive a publish failure and are retried on the next call.
func (p *Proxy) Flush(ctx context.Context) error {
	if err := p.m.Err(); err != nil {
		return err
	}
	p.pending = append(p.pending, p.m.TakeOperations()...)
	for len(p.pending) > 0 {
		op := p.pending[0]
		msg := Message{MapID: p.m.ID(), Method: op.Method, Args: op.Args}
		if err := p.bus.Publish(ctx, msg); err != nil {
			return err
		}
		p.pending = p.pending[1:]
	}
	return nil
}
