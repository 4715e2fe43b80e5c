// Package guardrail runs input/output guardrail checks around agent and
// tool execution (§4.4). A guardrail inspects a candidate value and may
// trip a tripwire to halt the run, independent of whether the underlying
// check itself errors.
package guardrail

import (
	"context"

	"github.com/goadesign/agentcore/value"
)

// Result is the outcome of a single guardrail check.
type Result struct {
	// TripwireTriggered halts the run when true.
	TripwireTriggered bool
	// Message explains why the tripwire fired. Empty when not triggered.
	Message string
	// OutputInfo carries structured diagnostic detail for the caller to
	// introspect instead of parsing Message.
	OutputInfo value.Value
}

// Check inspects candidate and returns a Result, or an error if the check
// itself could not complete (distinct from the check concluding the
// content is unacceptable, which is a tripwire).
type Check func(ctx context.Context, candidate value.Value) (Result, error)

// Guardrail names a Check so runner output and logs can identify which
// guardrail fired.
type Guardrail struct {
	Name  string
	Check Check
}

// New constructs a named Guardrail.
func New(name string, check Check) Guardrail {
	return Guardrail{Name: name, Check: check}
}
