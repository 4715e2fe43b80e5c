package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/events"
	"github.com/goadesign/agentcore/provider"
	"github.com/goadesign/agentcore/session"
)

const (
	defaultMaxPlanSteps = 10
	defaultMaxReplans   = 2
)

// PlanAndExecute implements the plan/execute/replan strategy (§4.5.4):
// a single generate call produces an ordered list of sub-goals, each
// sub-goal runs as a nested tool-calling invocation, and a divergent
// sub-goal triggers a bounded number of replans.
type PlanAndExecute struct {
	Instructions  string
	Options       provider.Options
	MaxPlanSteps  int
	MaxReplans    int
	SubgoalEngine ToolCalling
}

func (s PlanAndExecute) maxPlanSteps() int {
	if s.MaxPlanSteps > 0 {
		return s.MaxPlanSteps
	}
	return defaultMaxPlanSteps
}

func (s PlanAndExecute) maxReplans() int {
	if s.MaxReplans > 0 {
		return s.MaxReplans
	}
	return defaultMaxReplans
}

func (s PlanAndExecute) RunLoop(ctx context.Context, rt *agent.Runtime, runCtx *agent.Context) (agent.Result, error) {
	history := historyFrom(runCtx.Bag)
	goal := runCtx.Input
	totalIterations := 0

	for replan := 0; ; replan++ {
		if err := ctx.Err(); err != nil {
			return agent.Result{IterationCount: totalIterations}, &errs.Cancelled{}
		}

		totalIterations++
		rt.Publish(ctx, events.AgentEvent{Kind: events.Iteration, IterationN: totalIterations})

		plan, err := s.plan(ctx, rt, history, goal)
		if err != nil {
			return agent.Result{IterationCount: totalIterations}, err
		}

		result := agent.Result{IterationCount: totalIterations}
		var outputs []string
		diverged := false

		for _, step := range plan {
			subCtx := agent.NewContext(step)
			subCtx.Bag["history"] = history

			stepResult, stepErr := s.SubgoalEngine.RunLoop(ctx, rt, subCtx)
			result.ToolCalls = append(result.ToolCalls, stepResult.ToolCalls...)
			result.ToolResults = append(result.ToolResults, stepResult.ToolResults...)
			result.IterationCount += stepResult.IterationCount
			if stepErr != nil {
				diverged = true
				break
			}
			outputs = append(outputs, stepResult.Output)
		}

		if !diverged {
			result.Output = strings.Join(outputs, "\n")
			return result, nil
		}

		if replan >= s.maxReplans() {
			return result, &errs.InvalidAgentResponse{Reason: fmt.Sprintf("plan diverged after %d replans", replan)}
		}
		goal = fmt.Sprintf("%s\n(previous plan diverged; replanning)", goal)
	}
}

// plan asks the provider for a JSON array of ordered sub-goal strings and
// bounds the result to MaxPlanSteps.
func (s PlanAndExecute) plan(ctx context.Context, rt *agent.Runtime, history []session.Message, goal string) ([]string, error) {
	prompt := s.Instructions + "\n" + renderTranscript(history, goal, []string{
		"Respond with a JSON array of ordered sub-goal strings, e.g. [\"step one\", \"step two\"].",
	})

	content, err := rt.Provider.Generate(ctx, prompt, s.Options)
	if err != nil {
		return nil, &errs.GenerationFailed{Reason: err.Error()}
	}

	var steps []string
	if err := json.Unmarshal([]byte(firstJSONValue(strings.TrimSpace(content))), &steps); err != nil {
		return nil, &errs.InvalidAgentResponse{Reason: fmt.Sprintf("plan response was not a JSON string array: %v", err)}
	}
	if len(steps) > s.maxPlanSteps() {
		steps = steps[:s.maxPlanSteps()]
	}
	return steps, nil
}
