package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/errs"
)

// Branch names one fan-out leg of a Parallel step.
type Branch struct {
	Name string
	Step Step
}

// Reducer combines named branch results into the Parallel step's output
// text. The default reducer joins declared-branch order with "\n\n".
type Reducer func(results map[string]agent.Result, order []string) string

// Parallel fans Branches out concurrently; every branch receives the same
// input. Results are merged into Metadata keyed by branch name; the output
// text is produced by Reducer (or the default join reducer).
type Parallel struct {
	Branches []Branch
	Reducer  Reducer
}

func (p Parallel) children() []Step {
	steps := make([]Step, len(p.Branches))
	for i, b := range p.Branches {
		steps[i] = b.Step
	}
	return steps
}

func defaultReducer(results map[string]agent.Result, order []string) string {
	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = results[name].Output
	}
	return strings.Join(parts, "\n\n")
}

func (p Parallel) Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error) {
	if len(p.Branches) == 0 {
		return agent.Result{Output: input}, nil
	}

	order := make([]string, len(p.Branches))
	results := make([]agent.Result, len(p.Branches))

	g, gCtx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, branch := range p.Branches {
		i, branch := i, branch
		order[i] = branch.Name
		g.Go(func() error {
			r, err := branch.Step.Execute(gCtx, input, runCtx)
			if err != nil {
				return fmt.Errorf("branch %q: %w", branch.Name, err)
			}
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return agent.Result{}, &errs.OrchestrationFailed{StepKind: "parallel", Underlying: err}
	}

	metadata := make(map[string]any, len(results))
	byName := make(map[string]agent.Result, len(results))
	for i, name := range order {
		byName[name] = results[i]
		metadata[name] = results[i]
	}

	reduce := p.Reducer
	if reduce == nil {
		reduce = defaultReducer
	}

	return agent.Result{Output: reduce(byName, order), Metadata: metadata}, nil
}
