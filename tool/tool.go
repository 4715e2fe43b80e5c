// Package tool defines the Tool contract, a name-keyed Registry that
// normalizes and validates arguments before invocation (§4.1, §4.2), and a
// ParallelExecutor for fan-out tool-call batches (§4.3).
package tool

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

// Tool is a single invocable capability exposed to an agent.
type Tool interface {
	// Name uniquely identifies the tool within a Registry.
	Name() string
	// Schema describes the tool's parameters to planners and providers.
	Schema() toolschema.ToolSchema
	// Invoke runs the tool body against already-normalized arguments.
	Invoke(ctx context.Context, arguments value.Value) (value.Value, error)
}

// Call is a single tool invocation request, as emitted by a strategy engine
// from a model response.
type Call struct {
	ID        uuid.UUID
	Name      string
	Arguments value.Value
}

// NewCall constructs a Call with a fresh ID.
func NewCall(name string, arguments value.Value) Call {
	return Call{ID: uuid.New(), Name: name, Arguments: arguments}
}

// Result is the outcome of executing a Call.
type Result struct {
	CallID   uuid.UUID
	Name     string
	Output   value.Value
	Err      error
	Duration time.Duration
}

// Success reports whether the call completed without error.
func (r Result) Success() bool { return r.Err == nil }

// funcTool adapts a schema and invoke function into a Tool.
type funcTool struct {
	schema toolschema.ToolSchema
	invoke func(ctx context.Context, arguments value.Value) (value.Value, error)
}

// New constructs a Tool from a schema and an untyped invoke function. Most
// callers should prefer RegisterTyped, which derives the JSON boundary from
// Go types instead of hand-writing value.Value plumbing.
func New(schema toolschema.ToolSchema, invoke func(ctx context.Context, arguments value.Value) (value.Value, error)) Tool {
	return &funcTool{schema: schema, invoke: invoke}
}

func (t *funcTool) Name() string                      { return t.schema.Name }
func (t *funcTool) Schema() toolschema.ToolSchema      { return t.schema }
func (t *funcTool) Invoke(ctx context.Context, a value.Value) (value.Value, error) {
	return t.invoke(ctx, a)
}
