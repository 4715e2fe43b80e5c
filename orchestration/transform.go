package orchestration

import (
	"context"

	"github.com/goadesign/agentcore/agent"
)

// Transform applies a pure, synchronous input->string mapping, used to
// adapt one step's output into the shape the next step expects.
type Transform struct {
	Fn func(input string) string
}

func (t Transform) children() []Step { return nil }

func (t Transform) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	return agent.Result{Output: t.Fn(input)}, nil
}
