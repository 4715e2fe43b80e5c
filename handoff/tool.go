package handoff

import (
	"context"

	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

// NewTool synthesizes the virtual tool a tool-calling strategy invokes to
// perform this handoff. fromName identifies the owning agent for the
// onHandoff hook; onHandoff is called before the target runs, and may be
// nil.
func NewTool(decl Declaration, fromName string, onHandoff func(ctx context.Context, from, to string)) tool.Tool {
	schema := toolschema.ToolSchema{
		Name:        decl.toolName(),
		Description: decl.toolDescription(),
		Parameters: []toolschema.ToolParameter{
			{Name: "input", Description: "Input to hand off to the target agent.", Type: toolschema.StringType(), IsRequired: true},
		},
	}

	return tool.New(schema, func(ctx context.Context, arguments value.Value) (value.Value, error) {
		raw, _ := arguments.Get("input")
		input, _ := raw.AsString()
		input = decl.applyInputFilter(input)

		if onHandoff != nil {
			onHandoff(ctx, fromName, decl.TargetName)
		}

		result, err := decl.Target.Run(ctx, input)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(result.Output), nil
	})
}
