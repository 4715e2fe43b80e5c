package tool

import (
	"context"
	"encoding/json"

	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

// RegisterTyped builds a Tool whose body is an ordinary Go function over
// typed request/response structs, rather than value.Value. Arguments are
// round-tripped through encoding/json to populate In; the returned Out is
// marshaled back the same way. schema.Name and schema.Parameters still
// govern the three-phase normalization a Registry runs before Invoke is
// called, so In's struct tags should agree with schema's declared shape.
func RegisterTyped[In, Out any](schema toolschema.ToolSchema, fn func(ctx context.Context, in In) (Out, error)) Tool {
	return New(schema, func(ctx context.Context, arguments value.Value) (value.Value, error) {
		raw, err := json.Marshal(value.ToAny(arguments))
		if err != nil {
			return value.Value{}, err
		}
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return value.Value{}, err
		}
		out, err := fn(ctx, in)
		if err != nil {
			return value.Value{}, err
		}
		outRaw, err := json.Marshal(out)
		if err != nil {
			return value.Value{}, err
		}
		var outAny any
		if err := json.Unmarshal(outRaw, &outAny); err != nil {
			return value.Value{}, err
		}
		return value.FromAny(outAny), nil
	})
}
