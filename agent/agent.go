// Package agent implements the lifecycle core every strategy engine runs
// inside (§4.5): configuration, per-run context, result shape, and the
// Lifecycle pipeline that wraps a strategy's runLoop with session seeding,
// guardrails, and hook/event emission.
package agent

import (
	"time"

	"github.com/goadesign/agentcore/tool"
)

// Configuration is an agent's immutable tuning, fixed at construction.
type Configuration struct {
	Name                  string
	MaxIterations         int
	StopOnToolError       bool
	ParallelToolExecution bool
}

const defaultMaxIterations = 10

// NewConfiguration applies documented defaults (§3): MaxIterations 10,
// StopOnToolError false, ParallelToolExecution false.
func NewConfiguration(name string) Configuration {
	return Configuration{Name: name, MaxIterations: defaultMaxIterations}
}

func (c Configuration) maxIterations() int {
	if c.MaxIterations > 0 {
		return c.MaxIterations
	}
	return defaultMaxIterations
}

// Context is per-run mutable state owned by exactly one run; it is never
// shared across concurrent runs. Strategy engines read and append to it but
// never retain it past the run that owns it.
type Context struct {
	Input          string
	ExecutionTrail []string
	PreviousOutput string
	Bag            map[string]any
}

// NewContext seeds a fresh per-run Context for input.
func NewContext(input string) *Context {
	return &Context{Input: input, Bag: make(map[string]any)}
}

// Record appends agentName to the execution trail.
func (c *Context) Record(agentName string) {
	c.ExecutionTrail = append(c.ExecutionTrail, agentName)
}

// Result is what a completed (or terminated) run produces. ToolCalls and
// ToolResults are parallel by order of occurrence, not by CallID; the
// invariant len(ToolCalls) >= len(ToolResults) always holds (a call may be
// in flight when a run is cut short by failFast cancellation).
type Result struct {
	Output         string
	ToolCalls      []tool.Call
	ToolResults    []tool.Result
	IterationCount int
	Duration       time.Duration
	TokenUsage     *TokenUsage
	Metadata       map[string]any
}

// TokenUsage reports provider-side token accounting, when the provider
// surfaces it. Nil when unavailable.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
