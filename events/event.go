// Package events defines the observable event protocol a run emits (§6.3):
// a closed AgentEvent sum type, a synchronous fan-out Bus subscribers
// register against, and a channel-backed Stream adapter for callers that
// want to pull events one at a time instead of implementing Subscriber.
package events

import (
	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/tool"
)

// Kind discriminates an AgentEvent's variant.
type Kind int

const (
	Started Kind = iota
	Iteration
	ToolCallStarted
	ToolCallCompleted
	Handoff
	GuardrailTriggered
	GenerationDelta
	Completed
	Failed
)

// AgentEvent is a single observable occurrence during a run. Only the
// fields relevant to Kind are populated; the rest are zero.
type AgentEvent struct {
	Kind Kind

	// Started
	Input string

	// Iteration
	IterationN int
	AgentName  string

	// ToolCallStarted
	ToolCall tool.Call

	// ToolCallCompleted
	ToolResult tool.Result

	// Handoff
	HandoffFrom string
	HandoffTo   string

	// GuardrailTriggered
	GuardrailName string
	Classifier    errs.TripwireClass
	GuardrailInfo any

	// GenerationDelta
	Delta string

	// Completed carries the run's final output text.
	Output string

	// Failed
	Err error
}
