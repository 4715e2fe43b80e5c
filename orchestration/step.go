// Package orchestration implements the composition tree of agent runs
// (§4.6): a single-root OrchestrationStep whose concrete variants (Group,
// AgentStep, Parallel, Router, Transform) compose the same Execute
// contract, plus construction-time validation (cycles, duplicate branch
// names, nil steps) modeled as a DFS over the step tree. There is no loop
// variant, and empty Groups and Parallels pass validation.
package orchestration

import (
	"context"

	"github.com/goadesign/agentcore/agent"
)

// Step is the uniform contract every orchestration node implements.
type Step interface {
	Execute(ctx context.Context, input string, runCtx *agent.Context) (agent.Result, error)
}

// Runtime is the narrow surface orchestration needs from an agent: a single
// run entry point. *agent.Lifecycle satisfies this directly.
type Runtime interface {
	Run(ctx context.Context, input string) (agent.Result, error)
}

// childReporter is implemented by step variants that expose their immediate
// children, so Validate can walk the tree without a type switch per variant.
type childReporter interface {
	children() []Step
}
