package dispatch

import (
	"context"
	"sync"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/observability"
)

// MemoryBus is an in-process Bus for single-binary deployments and tests.
// Each subscriber drains its own unbounded FIFO queue on a dedicated
// goroutine, so a slow handler never blocks publishers or other
// subscribers.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[string]map[int]*memorySub
	nextID int
	closed bool
}

type memorySub struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Message
	handler Handler
	done    bool
}

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]*memorySub)}
}

// Publish enqueues msg for every current subscriber of msg.MapID. A map
// with no subscribers drops the message.
func (b *MemoryBus) Publish(ctx context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		err := errors.New(errors.ErrCodeInternal, "publish on closed bus")
		observability.Dispatch().OnPublish(ctx, msg.MapID, msg.Method, err)
		return err
	}
	for _, s := range b.subs[msg.MapID] {
		s.enqueue(msg)
	}
	observability.Dispatch().OnPublish(ctx, msg.MapID, msg.Method, nil)
	return nil
}

// Subscribe registers h for mapID. Messages are delivered in publish order
// on a goroutine owned by the subscription.
func (b *MemoryBus) Subscribe(_ context.Context, mapID string, h Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errors.New(errors.ErrCodeInternal, "subscribe on closed bus")
	}

	s := &memorySub{handler: h}
	s.cond = sync.NewCond(&s.mu)
	go s.drain()

	id := b.nextID
	b.nextID++
	if b.subs[mapID] == nil {
		b.subs[mapID] = make(map[int]*memorySub)
	}
	b.subs[mapID][id] = s
	observability.Dispatch().OnSubscribe(mapID)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[mapID], id)
			if len(b.subs[mapID]) == 0 {
				delete(b.subs, mapID)
			}
			b.mu.Unlock()
			s.stop()
			observability.Dispatch().OnUnsubscribe(mapID)
		})
	}
	return cancel, nil
}

// Close cancels every subscription. Further Publish and Subscribe calls
// fail.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var all []*memorySub
	for _, m := range b.subs {
		for _, s := range m {
			all = append(all, s)
		}
	}
	b.subs = make(map[string]map[int]*memorySub)
	b.mu.Unlock()

	for _, s := range all {
		s.stop()
	}
	return nil
}

func (s *memorySub) enqueue(msg Message) {
	s.mu.Lock()
	if !s.done {
		s.queue = append(s.queue, msg)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *memorySub) stop() {
	s.mu.Lock()
	s.done = true
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *memorySub) drain() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.done {
			s.cond.Wait()
		}
		if s.done {
			s.mu.Unlock()
			return
		}
		msg := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.handler(msg)
	}
}

var _ Bus = (*MemoryBus)(nil)
