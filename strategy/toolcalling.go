package strategy

import (
	"context"
	"fmt"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/events"
	"github.com/goadesign/agentcore/provider"
	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/value"
)

// ToolCalling implements the native function-calling loop (§4.5.1): each
// iteration asks the provider for a completion with the registry's tool
// schemas attached; a response with no tool calls ends the run.
type ToolCalling struct {
	Instructions string
	Options      provider.Options
}

func (s ToolCalling) RunLoop(ctx context.Context, rt *agent.Runtime, runCtx *agent.Context) (agent.Result, error) {
	history := historyFrom(runCtx.Bag)
	var transcript []string
	var allCalls []tool.Call
	var allResults []tool.Result

	schemas := providerSchemas(rt.Tools.Schemas())

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration - 1}, &errs.Cancelled{}
		}

		rt.Publish(ctx, events.AgentEvent{Kind: events.Iteration, IterationN: iteration})

		prompt := s.Instructions + "\n" + renderTranscript(history, runCtx.Input, transcript)
		resp, err := rt.Provider.GenerateWithToolCalls(ctx, prompt, schemas, s.Options)
		if err != nil {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration}, &errs.GenerationFailed{Reason: err.Error()}
		}

		if len(resp.ToolCalls) == 0 {
			return agent.Result{
				Output:         resp.Content,
				ToolCalls:      allCalls,
				ToolResults:    allResults,
				IterationCount: iteration,
			}, nil
		}

		calls := make([]tool.Call, len(resp.ToolCalls))
		for i, pc := range resp.ToolCalls {
			calls[i] = tool.NewCall(pc.ToolName, value.FromAny(pc.Arguments))
		}
		allCalls = append(allCalls, calls...)

		results, err := s.executeCalls(ctx, rt, calls)
		allResults = append(allResults, results...)
		if err != nil {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration}, err
		}

		for _, r := range results {
			rt.Publish(ctx, events.AgentEvent{Kind: events.ToolCallCompleted, ToolResult: r})
			if r.Success() {
				transcript = append(transcript, fmt.Sprintf("tool[%s] -> %v", r.Name, value.ToAny(r.Output)))
			} else {
				transcript = append(transcript, fmt.Sprintf("tool[%s] error -> %v", r.Name, r.Err))
				if rt.StopOnToolError() {
					return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration}, r.Err
				}
			}
		}

		if iteration >= rt.MaxIterations() {
			return agent.Result{
				Output:         resp.Content,
				ToolCalls:      allCalls,
				ToolResults:    allResults,
				IterationCount: iteration,
			}, &errs.MaxIterationsReached{MaxIterations: iteration}
		}
	}
}

func (s ToolCalling) executeCalls(ctx context.Context, rt *agent.Runtime, calls []tool.Call) ([]tool.Result, error) {
	for _, c := range calls {
		rt.Publish(ctx, events.AgentEvent{Kind: events.ToolCallStarted, ToolCall: c})
	}
	if !rt.ParallelToolExecution() || len(calls) <= 1 {
		results := make([]tool.Result, len(calls))
		for i, c := range calls {
			results[i] = rt.Tools.Execute(ctx, c)
		}
		return results, nil
	}
	executor := tool.NewParallelExecutor(rt.Tools, tool.WithStrategy(tool.ContinueOnError))
	return executor.Execute(ctx, calls)
}
