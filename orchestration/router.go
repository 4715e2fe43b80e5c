package orchestration

import (
	"context"

	"github.com/goadesign/agentcore/agent"
)

// When is a single Router branch: Step runs when Predicate(input) is true.
type When struct {
	Predicate func(input string) bool
	Step      Step
}

// Router evaluates Branches in declaration order and runs the first whose
// Predicate matches. If none match, every step in Otherwise runs, in
// declaration order, as a Group (multiple Otherwise steps are deterministic
// and ordered, not last-wins).
type Router struct {
	Branches  []When
	Otherwise []Step
}

func (r Router) children() []Step {
	steps := make([]Step, 0, len(r.Branches)+len(r.Otherwise))
	for _, b := range r.Branches {
		steps = append(steps, b.Step)
	}
	steps = append(steps, r.Otherwise...)
	return steps
}

func (r Router) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	for _, branch := range r.Branches {
		if branch.Predicate(input) {
			return branch.Step.Execute(ctx, input, runCtx)
		}
	}
	return Group{Steps: r.Otherwise}.Execute(ctx, input, runCtx)
}
