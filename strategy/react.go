package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/events"
	"github.com/goadesign/agentcore/provider"
	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/value"
)

const defaultMaxParseFailures = 2

var (
	finalAnswerRE = regexp.MustCompile(`(?s)Final Answer:\s*(.*)`)
	actionRE      = regexp.MustCompile(`(?m)^Action:\s*(.+)$`)
	actionInputRE = regexp.MustCompile(`(?s)Action Input:\s*(.+)`)
)

// ReAct implements the text-parse reasoning/acting loop (§4.5.2): the model
// emits either "Final Answer: <text>" or "Action: <tool>\nAction Input:
// <json>" as plain text, which this engine parses and executes.
type ReAct struct {
	Instructions     string
	Options          provider.Options
	MaxParseFailures int
}

func (s ReAct) maxParseFailures() int {
	if s.MaxParseFailures > 0 {
		return s.MaxParseFailures
	}
	return defaultMaxParseFailures
}

func (s ReAct) RunLoop(ctx context.Context, rt *agent.Runtime, runCtx *agent.Context) (agent.Result, error) {
	history := historyFrom(runCtx.Bag)
	var transcript []string
	var allCalls []tool.Call
	var allResults []tool.Result
	consecutiveFailures := 0

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration - 1}, &errs.Cancelled{}
		}
		rt.Publish(ctx, events.AgentEvent{Kind: events.Iteration, IterationN: iteration})

		prompt := s.Instructions + "\n" + renderTranscript(history, runCtx.Input, transcript)
		content, err := rt.Provider.Generate(ctx, prompt, s.Options)
		if err != nil {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration}, &errs.GenerationFailed{Reason: err.Error()}
		}

		if m := finalAnswerRE.FindStringSubmatch(content); m != nil {
			return agent.Result{
				Output:         strings.TrimSpace(m[1]),
				ToolCalls:      allCalls,
				ToolResults:    allResults,
				IterationCount: iteration,
			}, nil
		}

		toolName, args, perr := parseAction(content)
		if perr != nil {
			consecutiveFailures++
			if consecutiveFailures > s.maxParseFailures() {
				return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration},
					&errs.InvalidAgentResponse{Reason: perr.Error()}
			}
			transcript = append(transcript, fmt.Sprintf("(correction) could not parse response: %v. Respond with either \"Final Answer: <text>\" or \"Action: <tool>\\nAction Input: <json>\".", perr))
			continue
		}
		consecutiveFailures = 0

		call := tool.NewCall(toolName, args)
		allCalls = append(allCalls, call)
		rt.Publish(ctx, events.AgentEvent{Kind: events.ToolCallStarted, ToolCall: call})
		result := rt.Tools.Execute(ctx, call)
		allResults = append(allResults, result)
		rt.Publish(ctx, events.AgentEvent{Kind: events.ToolCallCompleted, ToolResult: result})

		if result.Success() {
			transcript = append(transcript, fmt.Sprintf("Observation: %v", value.ToAny(result.Output)))
		} else {
			transcript = append(transcript, fmt.Sprintf("Observation: error: %v", result.Err))
			if rt.StopOnToolError() {
				return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration}, result.Err
			}
		}

		if iteration >= rt.MaxIterations() {
			return agent.Result{ToolCalls: allCalls, ToolResults: allResults, IterationCount: iteration},
				&errs.MaxIterationsReached{MaxIterations: iteration}
		}
	}
}

func parseAction(content string) (string, value.Value, error) {
	nameMatch := actionRE.FindStringSubmatch(content)
	if nameMatch == nil {
		return "", value.Value{}, fmt.Errorf("no Action found")
	}
	inputMatch := actionInputRE.FindStringSubmatch(content)
	if inputMatch == nil {
		return "", value.Value{}, fmt.Errorf("no Action Input found")
	}
	toolName := strings.TrimSpace(nameMatch[1])
	raw := strings.TrimSpace(inputMatch[1])
	// Action Input may be followed by further react-format lines; take the
	// first balanced JSON value on the line(s).
	raw = firstJSONValue(raw)

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return "", value.Value{}, fmt.Errorf("action input is not valid json: %w", err)
	}
	return toolName, value.FromAny(decoded), nil
}

// firstJSONValue trims raw to its first top-level JSON value, so trailing
// react-format text on later lines doesn't break json.Unmarshal.
func firstJSONValue(raw string) string {
	dec := json.NewDecoder(strings.NewReader(raw))
	var msg json.RawMessage
	if err := dec.Decode(&msg); err != nil {
		return raw
	}
	return string(msg)
}
