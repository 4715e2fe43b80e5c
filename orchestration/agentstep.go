package orchestration

import (
	"context"

	"github.com/goadesign/agentcore/agent"
)

// AgentStep invokes a Runtime (typically *agent.Lifecycle) with the
// current input as a single orchestration node.
type AgentStep struct {
	Name  string
	Agent Runtime
}

func (s AgentStep) children() []Step { return nil }

func (s AgentStep) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	if runCtx != nil {
		runCtx.Record(s.Name)
	}
	return s.Agent.Run(ctx, input)
}
