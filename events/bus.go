package events

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Bus publishes AgentEvents to registered subscribers in a synchronous
// fan-out pattern: Publish delivers to every subscriber, in registration
// order, stopping at the first subscriber error.
type Bus interface {
	Publish(ctx context.Context, event AgentEvent) error
	Register(sub Subscriber) (Subscription, error)
}

// Subscriber reacts to published events.
type Subscriber interface {
	HandleEvent(ctx context.Context, event AgentEvent) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, event AgentEvent) error

func (f SubscriberFunc) HandleEvent(ctx context.Context, event AgentEvent) error { return f(ctx, event) }

// Subscription represents an active registration on a Bus. Close is
// idempotent.
type Subscription interface {
	Close() error
}

type bus struct {
	mu          sync.RWMutex
	subscribers map[*subscription]Subscriber
	nextSeq     uint64
}

type subscription struct {
	bus  *bus
	seq  uint64
	once sync.Once
}

// NewBus constructs an in-memory, thread-safe Bus.
func NewBus() Bus {
	return &bus{subscribers: make(map[*subscription]Subscriber)}
}

func (b *bus) Publish(ctx context.Context, event AgentEvent) error {
	b.mu.RLock()
	regs := make([]*subscription, 0, len(b.subscribers))
	for s := range b.subscribers {
		regs = append(regs, s)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].seq < regs[j].seq })
	subs := make([]Subscriber, 0, len(regs))
	for _, s := range regs {
		subs = append(subs, b.subscribers[s])
	}
	b.mu.RUnlock()
	for _, sub := range subs {
		if err := sub.HandleEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (b *bus) Register(sub Subscriber) (Subscription, error) {
	if sub == nil {
		return nil, errors.New("subscriber is required")
	}
	s := &subscription{bus: b}
	b.mu.Lock()
	b.nextSeq++
	s.seq = b.nextSeq
	b.subscribers[s] = sub
	b.mu.Unlock()
	return s, nil
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subscribers, s)
		s.bus.mu.Unlock()
	})
	return nil
}
