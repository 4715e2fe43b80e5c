package tool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/guardrail"
	"github.com/goadesign/agentcore/telemetry"
	"github.com/goadesign/agentcore/toolschema"
)

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger configures the registry's logger. Defaults to a noop logger.
func WithLogger(logger telemetry.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithTracer configures the registry's tracer. Defaults to a noop tracer.
func WithTracer(tracer telemetry.Tracer) Option {
	return func(r *Registry) { r.tracer = tracer }
}

// WithToolInputGuardrails attaches a guardrail runner evaluated against
// normalized arguments before a tool body executes.
func WithToolInputGuardrails(runner *guardrail.Runner) Option {
	return func(r *Registry) { r.inputGuardrails = runner }
}

// WithToolOutputGuardrails attaches a guardrail runner evaluated against a
// tool's output before it is returned to the caller.
func WithToolOutputGuardrails(runner *guardrail.Runner) Option {
	return func(r *Registry) { r.outputGuardrails = runner }
}

// Registry holds named tools and runs the normalize -> guardrail -> invoke
// -> guardrail protocol around Execute (§4.2).
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool

	inputGuardrails  *guardrail.Runner
	outputGuardrails *guardrail.Runner

	logger telemetry.Logger
	tracer telemetry.Tracer
}

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		logger: telemetry.NewNoopLogger(),
		tracer: telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds t to the registry. It returns an error when a tool with the
// same name is already registered.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	return nil
}

// Unregister removes a tool by name. It is a no-op when the name is absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Tool returns the registered tool by name.
func (r *Registry) Tool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Schemas returns the schema of every registered tool, in no particular
// order; callers that need determinism should sort by Name.
func (r *Registry) Schemas() []toolschema.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]toolschema.ToolSchema, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Schema())
	}
	return out
}

// Execute runs the full tool-call protocol for call: resolve the tool,
// normalize its arguments against the declared schema, run input
// guardrails, invoke the tool body, then run output guardrails.
func (r *Registry) Execute(ctx context.Context, call Call) Result {
	if err := ctx.Err(); err != nil {
		return Result{CallID: call.ID, Name: call.Name, Err: &errs.Cancelled{}}
	}

	ctx, span := r.tracer.Start(ctx, "tool.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", call.Name),
			attribute.String("tool.call_id", call.ID.String()),
		),
	)
	defer span.End()

	start := time.Now()

	t, ok := r.Tool(call.Name)
	if !ok {
		err := &errs.ToolNotFound{Name: call.Name}
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool not found")
		return Result{CallID: call.ID, Name: call.Name, Err: err, Duration: time.Since(start)}
	}

	args, err := toolschema.Normalize(call.Name, t.Schema().Parameters, call.Arguments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid tool arguments")
		return Result{CallID: call.ID, Name: call.Name, Err: err, Duration: time.Since(start)}
	}

	if r.inputGuardrails != nil {
		if err := r.inputGuardrails.Run(ctx, errs.ClassToolInput, call.Name, args); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool input guardrail tripped")
			return Result{CallID: call.ID, Name: call.Name, Err: err, Duration: time.Since(start)}
		}
	}

	out, err := t.Invoke(ctx, args)
	if err != nil {
		wrapped := &errs.ToolExecutionFailed{ToolName: call.Name, Underlying: err}
		span.RecordError(wrapped)
		span.SetStatus(codes.Error, "tool invocation failed")
		r.logger.Error(ctx, "tool invocation failed", "tool", call.Name, "err", err)
		return Result{CallID: call.ID, Name: call.Name, Err: wrapped, Duration: time.Since(start)}
	}

	if r.outputGuardrails != nil {
		if err := r.outputGuardrails.Run(ctx, errs.ClassToolOutput, call.Name, out); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool output guardrail tripped")
			return Result{CallID: call.ID, Name: call.Name, Err: err, Duration: time.Since(start)}
		}
	}

	span.SetStatus(codes.Ok, "ok")
	return Result{CallID: call.ID, Name: call.Name, Output: out, Duration: time.Since(start)}
}
