package handoff

import (
	"context"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/orchestration"
)

// Step composes a Declaration into an orchestration.Step that replaces the
// current position in the tree with the target agent's run, after applying
// the handoff's input filter (§4.6 Handoff variant). OnHandoff, if set, is
// invoked before the target runs.
type Step struct {
	Declaration Declaration
	FromName    string
	OnHandoff   func(ctx context.Context, from, to string)
}

// Execute satisfies orchestration.Step.
func (s Step) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	if runCtx != nil {
		runCtx.Record(s.Declaration.TargetName)
	}
	filtered := s.Declaration.applyInputFilter(input)
	if s.OnHandoff != nil {
		s.OnHandoff(ctx, s.FromName, s.Declaration.TargetName)
	}
	return s.Declaration.Target.Run(ctx, filtered)
}

var _ orchestration.Step = Step{}
