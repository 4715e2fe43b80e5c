package mcp

import (
	"context"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/tool"
	"github.com/goadesign/agentcore/toolschema"
	"github.com/goadesign/agentcore/value"
)

// compileInputSchema compiles a server-reported JSON Schema document so
// BridgeTool can validate arguments against its full shape (object/oneOf
// sub-trees, enums, nested constraints) rather than only the coarse
// per-property type mapping parametersFromJSONSchema performs. A schema
// that fails to compile (malformed or empty) degrades to nil: the bridge
// still works off the mapped ParameterType tree, it just loses the extra
// validation pass.
func compileInputSchema(schema map[string]any) *jsonschema.Schema {
	if len(schema) == 0 {
		return nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schema); err != nil {
		return nil
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil
	}
	return compiled
}

// validateAgainstSchema re-decodes plain through encoding/json so its values
// match the plain JSON types (float64, not int64) that the jsonschema
// package's Validate expects.
func validateAgainstSchema(schema *jsonschema.Schema, plain map[string]any) error {
	raw, err := json.Marshal(plain)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	return schema.Validate(decoded)
}

// BridgeTool wraps a remote MCP tool as a local tool.Tool whose Invoke
// forwards to client.CallTool. Description and parameters come from the
// server-reported JSON Schema, mapped per §4.8's type table; the schema is
// also compiled so arguments are validated against its full shape before
// the call is forwarded.
func BridgeTool(client *Client, at AggregatedTool) tool.Tool {
	schema := toolschema.ToolSchema{
		Name:        at.Tool.Name,
		Description: at.Tool.Description,
		Parameters:  parametersFromJSONSchema(at.Tool.InputSchema),
	}
	serverName := at.ServerName
	toolName := at.Tool.Name
	compiled := compileInputSchema(at.Tool.InputSchema)

	return tool.New(schema, func(ctx context.Context, arguments value.Value) (value.Value, error) {
		args, ok := arguments.AsDict()
		if !ok {
			args = map[string]value.Value{}
		}
		plain := make(map[string]any, len(args))
		for k, v := range args {
			plain[k] = toPlainAny(v)
		}
		if compiled != nil {
			if err := validateAgainstSchema(compiled, plain); err != nil {
				return value.Value{}, &errs.InvalidToolArguments{ToolName: toolName, Reason: err.Error()}
			}
		}
		out, err := client.CallTool(ctx, serverName, toolName, plain)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(out), nil
	})
}

// BridgeResourceTool wraps a remote MCP resource as a local read-only tool
// whose Invoke forwards to client.ReadResource. The synthesized tool takes
// no parameters; the resource URI is fixed at bridge time.
func BridgeResourceTool(client *Client, ar AggregatedResource, name string) tool.Tool {
	schema := toolschema.ToolSchema{
		Name:        name,
		Description: ar.Resource.Description,
	}
	serverName := ar.ServerName
	uri := ar.Resource.URI

	return tool.New(schema, func(ctx context.Context, _ value.Value) (value.Value, error) {
		out, err := client.ReadResource(ctx, serverName, uri)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(out), nil
	})
}

// parametersFromJSONSchema converts a server-reported JSON Schema "object"
// shape into the local parameter tree, applying §4.8's mapping:
// string→string, integer→int, number→double, boolean→bool, array→array(any),
// object→object([]), else→any.
func parametersFromJSONSchema(schema map[string]any) []toolschema.ToolParameter {
	props, _ := schema["properties"].(map[string]any)
	if len(props) == 0 {
		return nil
	}
	required := map[string]bool{}
	if reqList, ok := schema["required"].([]any); ok {
		for _, r := range reqList {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	params := make([]toolschema.ToolParameter, 0, len(props))
	for name, raw := range props {
		propSchema, _ := raw.(map[string]any)
		params = append(params, toolschema.ToolParameter{
			Name:        name,
			Description: stringField(propSchema, "description"),
			Type:        parameterTypeFromJSONSchema(propSchema),
			IsRequired:  required[name],
		})
	}
	return params
}

func parameterTypeFromJSONSchema(schema map[string]any) toolschema.ParameterType {
	switch stringField(schema, "type") {
	case "string":
		return toolschema.StringType()
	case "integer":
		return toolschema.IntType()
	case "number":
		return toolschema.DoubleType()
	case "boolean":
		return toolschema.BoolType()
	case "array":
		return toolschema.ArrayType(toolschema.AnyType())
	case "object":
		return toolschema.ObjectType()
	default:
		return toolschema.AnyType()
	}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// toPlainAny converts a value.Value back into an any suitable for
// json.Marshal when forwarding bridged tool arguments over JSON-RPC.
func toPlainAny(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindInt:
		i, _ := v.AsInt()
		return i
	case value.KindDouble:
		d, _ := v.AsDouble()
		return d
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindArray:
		arr, _ := v.AsArray()
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = toPlainAny(el)
		}
		return out
	case value.KindDict:
		dict, _ := v.AsDict()
		out := make(map[string]any, len(dict))
		for k, el := range dict {
			out[k] = toPlainAny(el)
		}
		return out
	default:
		return nil
	}
}
