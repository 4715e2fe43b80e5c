package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

func indexedTool(name string, shouldFail bool) tool.Tool {
	schema := toolschema.ToolSchema{Name: name}
	return tool.New(schema, func(ctx context.Context, args value.Value) (value.Value, error) {
		if shouldFail {
			return value.Value{}, errors.New("boom")
		}
		return value.String(name), nil
	})
}

func TestParallelExecutorPreservesOrder(t *testing.T) {
	r := tool.NewRegistry()
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		require.NoError(t, r.Register(indexedTool(n, false)))
	}
	calls := make([]tool.Call, len(names))
	for i, n := range names {
		calls[i] = tool.NewCall(n, value.Null())
	}

	exec := tool.NewParallelExecutor(r)
	results, err := exec.Execute(context.Background(), calls)
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, n := range names {
		assert.Equal(t, n, results[i].Name)
		s, _ := results[i].Output.AsString()
		assert.Equal(t, n, s)
	}
}

func TestParallelExecutorContinueOnErrorCarriesFailure(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(indexedTool("ok", false)))
	require.NoError(t, r.Register(indexedTool("bad", true)))

	exec := tool.NewParallelExecutor(r, tool.WithStrategy(tool.ContinueOnError))
	results, err := exec.Execute(context.Background(), []tool.Call{
		tool.NewCall("ok", value.Null()),
		tool.NewCall("bad", value.Null()),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestParallelExecutorCollectErrorsAggregates(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(indexedTool("bad1", true)))
	require.NoError(t, r.Register(indexedTool("bad2", true)))

	exec := tool.NewParallelExecutor(r, tool.WithStrategy(tool.CollectErrors))
	_, err := exec.Execute(context.Background(), []tool.Call{
		tool.NewCall("bad1", value.Null()),
		tool.NewCall("bad2", value.Null()),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 2 calls failed")
}

func TestParallelExecutorFailFastReturnsFirstError(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(indexedTool("bad", true)))
	require.NoError(t, r.Register(indexedTool("ok", false)))

	exec := tool.NewParallelExecutor(r, tool.WithStrategy(tool.FailFast))
	_, err := exec.Execute(context.Background(), []tool.Call{
		tool.NewCall("bad", value.Null()),
		tool.NewCall("ok", value.Null()),
	})
	require.Error(t, err)
}

func TestParallelExecutorRejectsMissingToolBeforeLaunchingAny(t *testing.T) {
	r := tool.NewRegistry()
	var invoked bool
	schema := toolschema.ToolSchema{Name: "ok"}
	require.NoError(t, r.Register(tool.New(schema, func(ctx context.Context, args value.Value) (value.Value, error) {
		invoked = true
		return value.Null(), nil
	})))

	exec := tool.NewParallelExecutor(r)
	results, err := exec.Execute(context.Background(), []tool.Call{
		tool.NewCall("missing", value.Null()),
		tool.NewCall("ok", value.Null()),
	})
	require.Error(t, err)
	var nf *errs.ToolNotFound
	require.ErrorAs(t, err, &nf)
	assert.Nil(t, results)
	assert.False(t, invoked)
}

func TestParallelExecutorSingleCallFastPath(t *testing.T) {
	r := tool.NewRegistry()
	require.NoError(t, r.Register(indexedTool("solo", false)))

	exec := tool.NewParallelExecutor(r)
	results, err := exec.Execute(context.Background(), []tool.Call{tool.NewCall("solo", value.Null())})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "solo", results[0].Name)
}
