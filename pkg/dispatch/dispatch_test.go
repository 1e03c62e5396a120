package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tilewright/tilewright/pkg/expr"
	"github.com/tilewright/tilewright/pkg/mapwidget"
)

// recorder collects delivered messages and signals when a target count is
// reached.
type recorder struct {
	mu   sync.Mutex
	msgs []Message
	done chan struct{}
	want int
}

func newRecorder(want int) *recorder {
	return &recorder{done: make(chan struct{}), want: want}
}

func (r *recorder) handle(msg Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	if len(r.msgs) == r.want {
		close(r.done)
	}
	r.mu.Unlock()
}

func (r *recorder) wait(t *testing.T) []Message {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

func TestMemoryBusDeliversInOrder(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()
	ctx := context.Background()

	rec := newRecorder(3)
	cancel, err := bus.Subscribe(ctx, "m1", rec.handle)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	for _, method := range []string{"clearMarkers", "addMarkers", "setView"} {
		if err := bus.Publish(ctx, Message{MapID: "m1", Method: method}); err != nil {
			t.Fatalf("Publish(%s): %v", method, err)
		}
	}

	msgs := rec.wait(t)
	want := []string{"clearMarkers", "addMarkers", "setView"}
	for i, m := range msgs {
		if m.Method != want[i] {
			t.Errorf("msgs[%d] = %q, want %q", i, m.Method, want[i])
		}
	}
}

func TestMemoryBusScopesByMapID(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()
	ctx := context.Background()

	rec := newRecorder(1)
	cancel, err := bus.Subscribe(ctx, "mine", rec.handle)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	// Messages for other maps (or no map) are not delivered.
	if err := bus.Publish(ctx, Message{MapID: "other", Method: "clearTiles"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := bus.Publish(ctx, Message{MapID: "mine", Method: "addTiles"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := rec.wait(t)
	if len(msgs) != 1 || msgs[0].Method != "addTiles" {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestMemoryBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()
	ctx := context.Background()

	rec := newRecorder(1)
	cancel, err := bus.Subscribe(ctx, "m1", rec.handle)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := bus.Publish(ctx, Message{MapID: "m1", Method: "addTiles"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	rec.wait(t)

	cancel()
	if err := bus.Publish(ctx, Message{MapID: "m1", Method: "clearTiles"}); err != nil {
		t.Fatalf("Publish after cancel: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.msgs) != 1 {
		t.Errorf("delivered %d messages after unsubscribe", len(rec.msgs))
	}
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewMemoryBus()
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Publish(context.Background(), Message{MapID: "m"}); err == nil {
		t.Error("publish on closed bus should fail")
	}
	if _, err := bus.Subscribe(context.Background(), "m", func(Message) {}); err == nil {
		t.Error("subscribe on closed bus should fail")
	}
	if err := bus.Close(); err != nil {
		t.Errorf("double close: %v", err)
	}
}

func TestProxyFlushPublishesStagedOps(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()
	ctx := context.Background()

	rec := newRecorder(2)
	cancel, err := bus.Subscribe(ctx, "live", rec.handle)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	p := NewProxy(bus, "live")
	p.Map().
		ClearGroup("stations").
		AddMarkers(expr.Lit([]float64{52.52}), expr.Lit([]float64{13.405}),
			"hq", "stations", mapwidget.MarkerOptions{})
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	msgs := rec.wait(t)
	if msgs[0].Method != "clearGroup" || msgs[1].Method != "addMarkers" {
		t.Errorf("methods = %q, %q", msgs[0].Method, msgs[1].Method)
	}
	if msgs[1].MapID != "live" {
		t.Errorf("MapID = %q", msgs[1].MapID)
	}
	if msgs[1].Args[0] != "hq" || msgs[1].Args[1] != "stations" {
		t.Errorf("args should lead with (layerId, group): %v", msgs[1].Args[:2])
	}

	// The stage is empty after a successful flush.
	if got := len(p.Map().Operations()); got != 0 {
		t.Errorf("stage holds %d operations after flush", got)
	}
}

func TestProxyFlushSurfacesBuilderError(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	p := NewProxy(bus, "live")
	p.Map().ClearGroup("")
	if err := p.Flush(context.Background()); err == nil {
		t.Error("Flush should surface the sticky builder error")
	}
}
