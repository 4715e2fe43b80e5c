package strategy

import (
	"context"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/provider"
)

// Chat implements the single-shot strategy (§4.5.3): one generate call,
// tools ignored entirely. Output guardrails still run in the lifecycle
// around this engine.
type Chat struct {
	Instructions string
	Options      provider.Options
}

func (s Chat) RunLoop(ctx context.Context, rt *agent.Runtime, runCtx *agent.Context) (agent.Result, error) {
	history := historyFrom(runCtx.Bag)
	prompt := s.Instructions + "\n" + renderTranscript(history, runCtx.Input, nil)

	content, err := rt.Provider.Generate(ctx, prompt, s.Options)
	if err != nil {
		return agent.Result{}, &errs.GenerationFailed{Reason: err.Error()}
	}
	return agent.Result{Output: content, IterationCount: 1}, nil
}
