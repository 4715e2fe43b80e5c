// Package toolschema implements the tool parameter type tree together with
// the three-phase normalization pipeline (default application, coercion,
// validation) that the tool registry runs over LLM-supplied arguments
// before a tool body ever sees them (§4.1).
package toolschema

import "github.com/goadesign/agentcore/value"

// Kind discriminates the variant carried by a ParameterType.
type Kind int

const (
	// KindString is a scalar string parameter.
	KindString Kind = iota
	// KindInt is a scalar integer parameter.
	KindInt
	// KindDouble is a scalar floating point parameter.
	KindDouble
	// KindBool is a scalar boolean parameter.
	KindBool
	// KindArray is a homogeneous array of Elem.
	KindArray
	// KindObject is a structured object with declared sub-parameters.
	KindObject
	// KindOneOf is a string enumeration restricted to Options.
	KindOneOf
	// KindAny passes the argument through unmodified.
	KindAny
)

// ParameterType describes the declared shape of a single tool parameter.
// It is a closed sum type: exactly the fields relevant to Kind are
// meaningful; others are zero.
type ParameterType struct {
	Kind    Kind
	Elem    *ParameterType  // meaningful when Kind == KindArray
	Props   []ToolParameter // meaningful when Kind == KindObject
	Options []string        // meaningful when Kind == KindOneOf
}

// StringType constructs a string ParameterType.
func StringType() ParameterType { return ParameterType{Kind: KindString} }

// IntType constructs an int ParameterType.
func IntType() ParameterType { return ParameterType{Kind: KindInt} }

// DoubleType constructs a double ParameterType.
func DoubleType() ParameterType { return ParameterType{Kind: KindDouble} }

// BoolType constructs a bool ParameterType.
func BoolType() ParameterType { return ParameterType{Kind: KindBool} }

// AnyType constructs a pass-through ParameterType.
func AnyType() ParameterType { return ParameterType{Kind: KindAny} }

// ArrayType constructs an array ParameterType whose elements have type elem.
func ArrayType(elem ParameterType) ParameterType {
	e := elem
	return ParameterType{Kind: KindArray, Elem: &e}
}

// ObjectType constructs an object ParameterType with the given sub-parameters.
func ObjectType(props ...ToolParameter) ParameterType {
	return ParameterType{Kind: KindObject, Props: props}
}

// OneOfType constructs a case-insensitive string enumeration ParameterType.
// options are the canonical forms normalization coerces matches onto.
func OneOfType(options ...string) ParameterType {
	return ParameterType{Kind: KindOneOf, Options: options}
}

// ToolParameter declares a single named, typed input to a tool.
type ToolParameter struct {
	Name         string
	Description  string
	Type         ParameterType
	IsRequired   bool
	DefaultValue *value.Value
}

// ToolSchema enumerates the metadata exposed to planners/providers for a
// single tool. Name must be unique within a registry.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  []ToolParameter
}
