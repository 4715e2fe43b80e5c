package handoff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/agent"
	"github.com/goadesign/agentcore/handoff"
	"github.com/goadesign/agentcore/value"
)

type fakeRuntime struct {
	fn func(ctx context.Context, input string) (agent.Result, error)
}

func (r fakeRuntime) Run(ctx context.Context, input string) (agent.Result, error) {
	return r.fn(ctx, input)
}

func TestDeclarationDefaultsToolNameAndDescription(t *testing.T) {
	decl := handoff.Declaration{TargetName: "Billing Agent"}
	var gotInput string
	target := fakeRuntime{fn: func(ctx context.Context, input string) (agent.Result, error) {
		gotInput = input
		return agent.Result{Output: "handled: " + input}, nil
	}}
	decl.Target = target

	tl := handoff.NewTool(decl, "triage", nil)
	assert.Equal(t, "handoff_to_billing_agent", tl.Schema().Name)
	assert.Equal(t, "Hand off execution to Billing Agent", tl.Schema().Description)

	out, err := tl.Invoke(context.Background(), value.Dict(map[string]value.Value{"input": value.String("refund please")}))
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "handled: refund please", s)
	assert.Equal(t, "refund please", gotInput)
}

func TestDeclarationCustomToolNameAndInputFilter(t *testing.T) {
	decl := handoff.Declaration{
		TargetName:  "billing",
		ToolName:    "escalate",
		InputFilter: func(input string) string { return "[escalated] " + input },
		Target: fakeRuntime{fn: func(ctx context.Context, input string) (agent.Result, error) {
			return agent.Result{Output: input}, nil
		}},
	}
	tl := handoff.NewTool(decl, "triage", nil)
	assert.Equal(t, "escalate", tl.Schema().Name)

	out, err := tl.Invoke(context.Background(), value.Dict(map[string]value.Value{"input": value.String("help")}))
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "[escalated] help", s)
}

func TestNewToolFiresOnHandoffBeforeRunningTarget(t *testing.T) {
	var from, to string
	decl := handoff.Declaration{
		TargetName: "billing",
		Target: fakeRuntime{fn: func(ctx context.Context, input string) (agent.Result, error) {
			return agent.Result{Output: "ok"}, nil
		}},
	}
	tl := handoff.NewTool(decl, "triage", func(ctx context.Context, f, t string) { from, to = f, t })

	_, err := tl.Invoke(context.Background(), value.Dict(map[string]value.Value{"input": value.String("x")}))
	require.NoError(t, err)
	assert.Equal(t, "triage", from)
	assert.Equal(t, "billing", to)
}

func TestStepReplacesCurrentPositionWithTargetRun(t *testing.T) {
	decl := handoff.Declaration{
		TargetName: "billing",
		Target: fakeRuntime{fn: func(ctx context.Context, input string) (agent.Result, error) {
			return agent.Result{Output: "billing handled: " + input}, nil
		}},
	}
	var from, to string
	step := handoff.Step{
		Declaration: decl,
		FromName:    "triage",
		OnHandoff:   func(ctx context.Context, f, t string) { from, t = f, t; to = t },
	}

	result, err := step.Execute(context.Background(), "refund", agent.NewContext("refund"))
	require.NoError(t, err)
	assert.Equal(t, "billing handled: refund", result.Output)
	assert.Equal(t, "triage", from)
	assert.Equal(t, "billing", to)
}
