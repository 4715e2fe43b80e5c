package agent

import "context"

// Engine is the narrow interface every strategy (tool-calling, ReAct, chat,
// plan-and-execute) implements. The lifecycle core is strategy-agnostic: it
// owns everything around the loop (session, guardrails, hooks) and delegates
// iteration semantics entirely to RunLoop, including emitting its own
// Iteration events on rt.Bus (§4.5).
type Engine interface {
	RunLoop(ctx context.Context, rt *Runtime, runCtx *Context) (Result, error)
}
