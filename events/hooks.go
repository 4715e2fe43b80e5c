package events

import (
	"context"

	"github.com/goadesign/agentcore/telemetry"
)

// Hooks bundles best-effort lifecycle callbacks an agent run invokes in
// addition to publishing AgentEvents on a Bus. Unlike Bus subscribers, hook
// errors never halt a run: they are logged and the run continues.
type Hooks struct {
	OnAgentStart func(ctx context.Context, agentName, input string)
	OnAgentEnd   func(ctx context.Context, agentName, output string)
	OnHandoff    func(ctx context.Context, from, to string)
	OnError      func(ctx context.Context, err error)
}

// Fire invokes the hook matching event.Kind, if set, swallowing panics from
// caller-supplied callbacks and logging them instead of propagating.
func (h Hooks) Fire(ctx context.Context, logger telemetry.Logger, event AgentEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "hook callback panicked", "kind", event.Kind, "recovered", r)
		}
	}()

	switch event.Kind {
	case Started:
		if h.OnAgentStart != nil {
			h.OnAgentStart(ctx, event.AgentName, event.Input)
		}
	case Completed:
		if h.OnAgentEnd != nil {
			h.OnAgentEnd(ctx, event.AgentName, event.Output)
		}
	case Handoff:
		if h.OnHandoff != nil {
			h.OnHandoff(ctx, event.HandoffFrom, event.HandoffTo)
		}
	case Failed:
		if h.OnError != nil {
			h.OnError(ctx, event.Err)
		}
	}
}
