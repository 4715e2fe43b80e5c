package agent

import (
	"context"

	"github.com/goadesign/agentcore/events"
	"github.com/goadesign/agentcore/provider"
	"github.com/goadesign/agentcore/telemetry"
	"github.com/goadesign/agentcore/tool"
)

// Runtime bundles the services a strategy Engine needs during RunLoop:
// tool registry, inference client, and the observability surface (bus,
// hooks, logger, tracer). The caller builds it and passes it to New, which
// sets its Config and fills in a missing Logger or Tracer; Lifecycle.Run hands it to the
// engine, and engines never construct their own Runtime.
type Runtime struct {
	Config   Configuration
	Tools    *tool.Registry
	Provider provider.Client
	Bus      events.Bus
	Hooks    events.Hooks
	Logger   telemetry.Logger
	Tracer   telemetry.Tracer
}

// MaxIterations returns rt.Config's configured iteration cap, applying the
// documented default when unset.
func (rt *Runtime) MaxIterations() int { return rt.Config.maxIterations() }

// StopOnToolError reports whether a failed tool call should terminate the run.
func (rt *Runtime) StopOnToolError() bool { return rt.Config.StopOnToolError }

// ParallelToolExecution reports whether tool calls within one iteration
// should execute concurrently.
func (rt *Runtime) ParallelToolExecution() bool { return rt.Config.ParallelToolExecution }

// Publish emits ev on rt.Bus, if one is configured. Publish errors are
// logged, not propagated: a broken subscriber must never abort a run.
func (rt *Runtime) Publish(ctx context.Context, ev events.AgentEvent) {
	if rt.Bus == nil {
		return
	}
	if err := rt.Bus.Publish(ctx, ev); err != nil {
		rt.Logger.Warn(ctx, "event publish failed", "kind", ev.Kind, "error", err)
	}
}
