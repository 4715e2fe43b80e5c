package events

import "context"

// Stream is a lazy, finite, non-restartable pull-style sequence of events
// for a single run (§6.3). It adapts the Bus's push-style Subscriber
// interface so callers can range over events with Next instead of
// implementing a Subscriber themselves.
type Stream struct {
	ch     chan AgentEvent
	sub    Subscription
	closed bool
}

// NewStream registers a Subscriber on bus that forwards every event into a
// buffered channel, and returns a Stream to pull them from. The stream ends
// (Next returns false) once a Completed or Failed event has been delivered,
// or the stream is closed.
func NewStream(bus Bus, buffer int) (*Stream, error) {
	if buffer <= 0 {
		buffer = 16
	}
	s := &Stream{ch: make(chan AgentEvent, buffer)}
	sub, err := bus.Register(SubscriberFunc(func(ctx context.Context, event AgentEvent) error {
		select {
		case s.ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
		if event.Kind == Completed || event.Kind == Failed {
			close(s.ch)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	s.sub = sub
	return s, nil
}

// Next blocks until the next event is available, returning false once the
// stream has ended.
func (s *Stream) Next(ctx context.Context) (AgentEvent, bool) {
	select {
	case ev, ok := <-s.ch:
		return ev, ok
	case <-ctx.Done():
		return AgentEvent{}, false
	}
}

// Close unregisters the stream's subscriber. It is safe to call multiple
// times and after the stream has naturally ended.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sub.Close()
}
