package toolschema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/value"
)

// Normalize runs the three-phase pipeline described in §4.1 over arguments
// declared against parameters: default application, coercion, then
// validation. arguments must be value.KindDict (or the null Value, treated
// as an empty dict) and the returned Value is always a fresh dict — inputs
// are never mutated in place.
func Normalize(toolName string, parameters []ToolParameter, arguments value.Value) (value.Value, error) {
	args, ok := arguments.AsDict()
	if !ok {
		if arguments.IsNull() {
			args = map[string]value.Value{}
		} else {
			return value.Value{}, &errs.InvalidToolArguments{ToolName: toolName, Reason: "arguments must be an object"}
		}
	}

	out := make(map[string]value.Value, len(args))
	for k, v := range args {
		out[k] = v
	}

	applyDefaults(parameters, out)

	if err := coerceAll(toolName, parameters, out, ""); err != nil {
		return value.Value{}, err
	}

	if err := validateAll(toolName, parameters, out, ""); err != nil {
		return value.Value{}, err
	}

	return value.Dict(out), nil
}

// applyDefaults inserts each parameter's DefaultValue when the argument is
// absent. Per the invariant in §3, a present default already conforms to
// its declared type, so no coercion is required for defaults themselves.
func applyDefaults(parameters []ToolParameter, args map[string]value.Value) {
	for _, p := range parameters {
		if p.DefaultValue == nil {
			continue
		}
		if _, present := args[p.Name]; !present {
			args[p.Name] = *p.DefaultValue
		}
	}
}

func coerceAll(toolName string, parameters []ToolParameter, args map[string]value.Value, pathPrefix string) error {
	for _, p := range parameters {
		v, present := args[p.Name]
		if !present {
			continue
		}
		path := joinPath(pathPrefix, p.Name)
		coerced, err := coerce(toolName, p.Type, v, path)
		if err != nil {
			return err
		}
		args[p.Name] = coerced
	}
	return nil
}

// coerce applies the loose-form acceptance rules of §4.1 for a single value
// against its declared type, recursing into arrays and objects.
func coerce(toolName string, t ParameterType, v value.Value, path string) (value.Value, error) {
	switch t.Kind {
	case KindAny:
		return v, nil

	case KindString:
		return v, nil

	case KindInt:
		if i, ok := v.AsInt(); ok {
			return value.Int(i), nil
		}
		if d, ok := v.AsDouble(); ok {
			if d == float64(int64(d)) {
				return value.Int(int64(d)), nil
			}
			return value.Value{}, typeErr(toolName, path, "int")
		}
		if s, ok := v.AsString(); ok {
			i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return value.Value{}, typeErr(toolName, path, "int")
			}
			return value.Int(i), nil
		}
		return value.Value{}, typeErr(toolName, path, "int")

	case KindDouble:
		if d, ok := v.AsDouble(); ok {
			return value.Double(d), nil
		}
		if i, ok := v.AsInt(); ok {
			return value.Double(float64(i)), nil
		}
		if s, ok := v.AsString(); ok {
			d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return value.Value{}, typeErr(toolName, path, "double")
			}
			return value.Double(d), nil
		}
		return value.Value{}, typeErr(toolName, path, "double")

	case KindBool:
		if b, ok := v.AsBool(); ok {
			return value.Bool(b), nil
		}
		if s, ok := v.AsString(); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return value.Bool(true), nil
			case "false":
				return value.Bool(false), nil
			}
		}
		return value.Value{}, typeErr(toolName, path, "bool")

	case KindOneOf:
		s, ok := v.AsString()
		if !ok {
			return value.Value{}, typeErr(toolName, path, "one of "+strings.Join(t.Options, "|"))
		}
		for _, opt := range t.Options {
			if strings.EqualFold(s, opt) {
				return value.String(opt), nil
			}
		}
		return value.Value{}, &errs.InvalidToolArguments{
			ToolName: toolName,
			Reason:   fmt.Sprintf("%s: %q is not one of %s", path, s, strings.Join(t.Options, "|")),
		}

	case KindArray:
		arr, ok := v.AsArray()
		if !ok {
			return value.Value{}, typeErr(toolName, path, "array")
		}
		out := make([]value.Value, len(arr))
		for i, el := range arr {
			cv, err := coerce(toolName, *t.Elem, el, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return value.Value{}, err
			}
			out[i] = cv
		}
		return value.Array(out...), nil

	case KindObject:
		d, ok := v.AsDict()
		if !ok {
			return value.Value{}, typeErr(toolName, path, "object")
		}
		cp := make(map[string]value.Value, len(d))
		for k, el := range d {
			cp[k] = el
		}
		if err := coerceAll(toolName, t.Props, cp, path); err != nil {
			return value.Value{}, err
		}
		return value.Dict(cp), nil

	default:
		return value.Value{}, fmt.Errorf("toolschema: unknown parameter kind %v", t.Kind)
	}
}

func validateAll(toolName string, parameters []ToolParameter, args map[string]value.Value, pathPrefix string) error {
	for _, p := range parameters {
		path := joinPath(pathPrefix, p.Name)
		v, present := args[p.Name]
		if !present {
			if p.IsRequired {
				return &errs.InvalidToolArguments{ToolName: toolName, Reason: fmt.Sprintf("%s is required", path)}
			}
			continue
		}
		if err := validateType(toolName, p.Type, v, path); err != nil {
			return err
		}
	}
	return nil
}

func validateType(toolName string, t ParameterType, v value.Value, path string) error {
	switch t.Kind {
	case KindAny:
		return nil
	case KindString:
		if _, ok := v.AsString(); !ok {
			return typeErr(toolName, path, "string")
		}
	case KindInt:
		if _, ok := v.AsInt(); !ok {
			return typeErr(toolName, path, "int")
		}
	case KindDouble:
		if _, ok := v.AsDouble(); !ok {
			return typeErr(toolName, path, "double")
		}
	case KindBool:
		if _, ok := v.AsBool(); !ok {
			return typeErr(toolName, path, "bool")
		}
	case KindOneOf:
		s, ok := v.AsString()
		if !ok {
			return typeErr(toolName, path, "one of "+strings.Join(t.Options, "|"))
		}
		found := false
		for _, opt := range t.Options {
			if s == opt {
				found = true
				break
			}
		}
		if !found {
			return &errs.InvalidToolArguments{
				ToolName: toolName,
				Reason:   fmt.Sprintf("%s: %q is not one of %s", path, s, strings.Join(t.Options, "|")),
			}
		}
	case KindArray:
		arr, ok := v.AsArray()
		if !ok {
			return typeErr(toolName, path, "array")
		}
		for i, el := range arr {
			if err := validateType(toolName, *t.Elem, el, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindObject:
		d, ok := v.AsDict()
		if !ok {
			return typeErr(toolName, path, "object")
		}
		return validateAll(toolName, t.Props, d, path)
	}
	return nil
}

func typeErr(toolName, path, want string) error {
	return &errs.InvalidToolArguments{ToolName: toolName, Reason: fmt.Sprintf("%s must be %s", path, want)}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
