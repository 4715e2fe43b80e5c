package tool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/guardrail"
	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

func echoTool() tool.Tool {
	schema := toolschema.ToolSchema{
		Name: "echo",
		Parameters: []toolschema.ToolParameter{
			{Name: "text", Type: toolschema.StringType(), IsRequired: true},
		},
	}
	return tool.New(schema, func(ctx context.Context, args value.Value) (value.Value, error) {
		v, _ := args.Get("text")
		return v, nil
	})
}

func TestRegistryExecuteRoundTrip(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(echoTool()))

	call := tool.NewCall("echo", value.Dict(map[string]value.Value{"text": value.String("hi")}))
	res := r.Execute(context.Background(), call)
	require.NoError(t, res.Err)
	s, ok := res.Output.AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := tool.NewRegistry()
	res := r.Execute(context.Background(), tool.NewCall("missing", value.Null()))
	require.Error(t, res.Err)
	var nf *errs.ToolNotFound
	require.ErrorAs(t, res.Err, &nf)
}

func TestRegistryExecuteInvalidArguments(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(echoTool()))
	res := r.Execute(context.Background(), tool.NewCall("echo", value.Dict(map[string]value.Value{})))
	require.Error(t, res.Err)
	var ia *errs.InvalidToolArguments
	require.ErrorAs(t, res.Err, &ia)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(echoTool()))
	err := r.Register(echoTool())
	require.Error(t, err)
}

func TestUnregisterRemovesTool(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(echoTool()))
	r.Unregister("echo")
	assert.False(t, r.Contains("echo"))
}

func TestRegistryExecuteFailsFastOnCancelledContext(t *testing.T) {
	var invoked bool
	schema := toolschema.ToolSchema{Name: "t"}
	spied := tool.New(schema, func(ctx context.Context, args value.Value) (value.Value, error) {
		invoked = true
		return value.Null(), nil
	})

	r := tool.NewRegistry()
	require.NoError(t, r.Register(spied))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Execute(ctx, tool.NewCall("t", value.Null()))
	require.Error(t, res.Err)
	var cancelled *errs.Cancelled
	require.ErrorAs(t, res.Err, &cancelled)
	assert.False(t, invoked)
}

func TestRegistryExecuteBlocksToolOnInputTripwire(t *testing.T) {
	var invoked bool
	schema := toolschema.ToolSchema{
		Name: "t",
		Parameters: []toolschema.ToolParameter{
			{Name: "q", Type: toolschema.StringType(), IsRequired: true},
		},
	}
	spied := tool.New(schema, func(ctx context.Context, args value.Value) (value.Value, error) {
		invoked = true
		return value.Null(), nil
	})

	stopOnQ := guardrail.New("G", func(ctx context.Context, candidate value.Value) (guardrail.Result, error) {
		q, _ := candidate.Get("q")
		s, _ := q.AsString()
		if s == "stop" {
			return guardrail.Result{TripwireTriggered: true, Message: "q is stop"}, nil
		}
		return guardrail.Result{}, nil
	})
	runner := guardrail.NewRunner([]guardrail.Guardrail{stopOnQ})

	r := tool.NewRegistry(tool.WithToolInputGuardrails(runner))
	require.NoError(t, r.Register(spied))

	call := tool.NewCall("t", value.Dict(map[string]value.Value{"q": value.String("stop")}))
	res := r.Execute(context.Background(), call)

	require.Error(t, res.Err)
	var tw *errs.TripwireTriggered
	require.ErrorAs(t, res.Err, &tw)
	assert.Equal(t, "G", tw.GuardrailName)
	assert.Equal(t, "t", tw.ToolName)
	assert.Equal(t, errs.ClassToolInput, tw.Class)
	assert.False(t, invoked)
}

func TestRegisterTypedRoundTrip(t *testing.T) {
	type in struct {
		N int `json:"n"`
	}
	type out struct {
		Doubled int `json:"doubled"`
	}
	schema := toolschema.ToolSchema{
		Name: "double",
		Parameters: []toolschema.ToolParameter{
			{Name: "n", Type: toolschema.IntType(), IsRequired: true},
		},
	}
	doubleTool := tool.RegisterTyped(schema, func(ctx context.Context, i in) (out, error) {
		return out{Doubled: i.N * 2}, nil
	})

	r := tool.NewRegistry()
	require.NoError(t, r.Register(doubleTool))

	res := r.Execute(context.Background(), tool.NewCall("double", value.Dict(map[string]value.Value{"n": value.Int(21)})))
	require.NoError(t, res.Err)
	d, ok := res.Output.Get("doubled")
	require.True(t, ok)
	i, _ := d.AsInt()
	assert.Equal(t, int64(42), i)
}
