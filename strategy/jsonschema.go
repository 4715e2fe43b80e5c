// Package strategy implements the four pluggable agent.Engine strategies
// (§4.5.1-4.5.4): tool-calling, ReAct, chat, and plan-and-execute. Every
// engine shares the same provider.Client/tool.Registry boundary; they differ
// only in how they turn one model turn into the next prompt.
package strategy

import (
	"strings"

	"github.com/goadesign/agentcore/provider"
	"github.com/goadesign/agentcore/session"
	"github.com/goadesign/agentcore/toolschema"
)

// toJSONSchema renders a toolschema.ParameterType as a JSON-Schema-shaped
// map, the vocabulary provider.ToolSchema.Parameters expects.
func toJSONSchema(t toolschema.ParameterType) map[string]any {
	switch t.Kind {
	case toolschema.KindString:
		return map[string]any{"type": "string"}
	case toolschema.KindInt:
		return map[string]any{"type": "integer"}
	case toolschema.KindDouble:
		return map[string]any{"type": "number"}
	case toolschema.KindBool:
		return map[string]any{"type": "boolean"}
	case toolschema.KindOneOf:
		return map[string]any{"type": "string", "enum": t.Options}
	case toolschema.KindArray:
		elem := toolschema.AnyType()
		if t.Elem != nil {
			elem = *t.Elem
		}
		return map[string]any{"type": "array", "items": toJSONSchema(elem)}
	case toolschema.KindObject:
		props := make(map[string]any, len(t.Props))
		var required []string
		for _, p := range t.Props {
			props[p.Name] = toJSONSchema(p.Type)
			if p.IsRequired {
				required = append(required, p.Name)
			}
		}
		schema := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	default:
		return map[string]any{}
	}
}

// providerSchemas converts registry tool schemas into the shape a
// provider.Client expects for native tool-call requests.
func providerSchemas(schemas []toolschema.ToolSchema) []provider.ToolSchema {
	out := make([]provider.ToolSchema, len(schemas))
	for i, s := range schemas {
		props := make(map[string]any, len(s.Parameters))
		var required []string
		for _, p := range s.Parameters {
			props[p.Name] = toJSONSchema(p.Type)
			if p.IsRequired {
				required = append(required, p.Name)
			}
		}
		params := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			params["required"] = required
		}
		out[i] = provider.ToolSchema{Name: s.Name, Description: s.Description, Parameters: params}
	}
	return out
}

// renderTranscript formats prior session history plus the current turn's
// free-form transcript lines (tool calls/observations appended by a
// strategy as it iterates) into one prompt string.
func renderTranscript(history []session.Message, input string, transcript []string) string {
	var b strings.Builder
	for _, m := range history {
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("user: ")
	b.WriteString(input)
	b.WriteString("\n")
	for _, line := range transcript {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func historyFrom(bag map[string]any) []session.Message {
	h, _ := bag["history"].([]session.Message)
	return h
}
