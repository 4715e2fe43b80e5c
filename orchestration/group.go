package orchestration

import (
	"context"
	"strconv"

	"github.com/goadesign/agentcore/agent"
)

// Group runs Steps sequentially, feeding each step's output as the next
// step's input. An empty Group is a valid no-op that echoes its input.
// Metadata from each step is merged last-write-wins, plus a namespaced copy
// under loop.step_<i>.<key> so earlier steps' values remain inspectable.
type Group struct {
	Steps []Step
}

func (g Group) children() []Step { return g.Steps }

func (g Group) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	if len(g.Steps) == 0 {
		return agent.Result{Output: input}, nil
	}

	current := input
	merged := make(map[string]any)
	var result agent.Result

	for i, step := range g.Steps {
		if err := ctx.Err(); err != nil {
			return agent.Result{}, err
		}
		r, err := step.Execute(ctx, current, runCtx)
		if err != nil {
			return agent.Result{}, err
		}
		for k, v := range r.Metadata {
			merged[k] = v
			merged[namespacedKey(i, k)] = v
		}
		current = r.Output
		result = r
	}

	result.Output = current
	result.Metadata = merged
	return result, nil
}

func namespacedKey(stepIndex int, key string) string {
	return "loop.step_" + strconv.Itoa(stepIndex) + "." + key
}
