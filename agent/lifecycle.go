package agent

import (
	"context"
	"time"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/events"
	"github.com/goadesign/agentcore/guardrail"
	"github.com/goadesign/agentcore/session"
	"github.com/goadesign/agentcore/telemetry"
	"github.com/goadesign/agentcore/value"
)

// Option configures a Lifecycle via functional options.
type Option func(*Lifecycle)

// WithSession attaches a conversation store used to seed history before a
// run and to write back the exchanged messages afterward.
func WithSession(store session.Store) Option {
	return func(l *Lifecycle) { l.session = store }
}

// WithInputGuardrails attaches the guardrail runner checked against the
// run's input before the strategy engine is invoked.
func WithInputGuardrails(runner *guardrail.Runner) Option {
	return func(l *Lifecycle) { l.inputGuardrails = runner }
}

// WithOutputGuardrails attaches the guardrail runner checked against the
// strategy engine's final output text.
func WithOutputGuardrails(runner *guardrail.Runner) Option {
	return func(l *Lifecycle) { l.outputGuardrails = runner }
}

// WithLogger overrides the lifecycle's logger. Defaults to a noop logger.
func WithLogger(logger telemetry.Logger) Option {
	return func(l *Lifecycle) { l.logger = logger }
}

// WithTracer overrides the lifecycle's tracer. Defaults to a noop tracer.
func WithTracer(tracer telemetry.Tracer) Option {
	return func(l *Lifecycle) { l.tracer = tracer }
}

// Lifecycle is the strategy-agnostic pipeline every run executes (§4.5):
// record execution, fire onAgentStart, seed session history, run input
// guardrails, delegate to the strategy's Engine, run output guardrails,
// write back to the session, fire onAgentEnd.
type Lifecycle struct {
	config Configuration
	engine Engine
	rt     *Runtime

	session          session.Store
	inputGuardrails  *guardrail.Runner
	outputGuardrails *guardrail.Runner

	logger telemetry.Logger
	tracer telemetry.Tracer
}

// New constructs a Lifecycle for the given configuration, strategy engine,
// and shared Runtime (tools, provider, bus, hooks).
func New(config Configuration, engine Engine, rt *Runtime, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		config: config,
		engine: engine,
		rt:     rt,
		logger: telemetry.NewNoopLogger(),
		tracer: telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(l)
	}
	rt.Config = config
	if rt.Logger == nil {
		rt.Logger = l.logger
	}
	if rt.Tracer == nil {
		rt.Tracer = l.tracer
	}
	return l
}

// sessionID extracts the conversation key from runCtx.Bag, falling back to
// the agent's configured name when the caller did not supply one.
func (l *Lifecycle) sessionID(runCtx *Context) string {
	if id, ok := runCtx.Bag["sessionID"].(string); ok && id != "" {
		return id
	}
	return l.config.Name
}

// Run executes one full lifecycle pass for input (§4.5 steps 1-9).
func (l *Lifecycle) Run(ctx context.Context, input string) (Result, error) {
	start := time.Now()
	ctx, span := l.tracer.Start(ctx, "agent.run")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Result{}, &errs.Cancelled{}
	}

	runCtx := NewContext(input)
	runCtx.Record(l.config.Name)

	l.rt.Publish(ctx, events.AgentEvent{Kind: events.Started, AgentName: l.config.Name, Input: input})
	l.rt.Hooks.Fire(ctx, l.logger, events.AgentEvent{Kind: events.Started, AgentName: l.config.Name, Input: input})

	var history []session.Message
	if l.session != nil {
		h, err := l.session.History(ctx, l.sessionID(runCtx))
		if err != nil {
			return l.fail(ctx, runCtx, start, err)
		}
		history = h
	}
	runCtx.Bag["history"] = history

	if l.inputGuardrails != nil {
		if err := l.inputGuardrails.Run(ctx, errs.ClassInput, l.config.Name, value.String(input)); err != nil {
			return l.fail(ctx, runCtx, start, err)
		}
	}

	result, err := l.engine.RunLoop(ctx, l.rt, runCtx)
	if err != nil {
		return l.failWithPartial(ctx, start, result, err)
	}

	if l.outputGuardrails != nil {
		if gErr := l.outputGuardrails.Run(ctx, errs.ClassOutput, l.config.Name, value.String(result.Output)); gErr != nil {
			return l.failWithPartial(ctx, start, result, gErr)
		}
	}

	if l.session != nil {
		id := l.sessionID(runCtx)
		if err := l.session.Append(ctx, id, session.Message{Role: session.RoleUser, Content: input}); err != nil {
			return l.fail(ctx, runCtx, start, err)
		}
		if err := l.session.Append(ctx, id, session.Message{Role: session.RoleAssistant, Content: result.Output}); err != nil {
			return l.fail(ctx, runCtx, start, err)
		}
	}

	result.Duration = time.Since(start)
	l.rt.Publish(ctx, events.AgentEvent{Kind: events.Completed, AgentName: l.config.Name, Output: result.Output})
	l.rt.Hooks.Fire(ctx, l.logger, events.AgentEvent{Kind: events.Completed, AgentName: l.config.Name, Output: result.Output})

	return result, nil
}

func (l *Lifecycle) fail(ctx context.Context, runCtx *Context, start time.Time, err error) (Result, error) {
	return l.failWithPartial(ctx, start, Result{}, err)
}

// failWithPartial reports a run failure while preserving whatever partial
// Result the engine had already accumulated (tool calls/results, iteration
// count) — e.g. MaxIterationsReached and stopOnToolError terminations carry
// meaningful partial progress, not just an error.
func (l *Lifecycle) failWithPartial(ctx context.Context, start time.Time, partial Result, err error) (Result, error) {
	l.logger.Error(ctx, "agent run failed", "agent", l.config.Name, "error", err)
	l.rt.Publish(ctx, events.AgentEvent{Kind: events.Failed, AgentName: l.config.Name, Err: err})
	l.rt.Hooks.Fire(ctx, l.logger, events.AgentEvent{Kind: events.Failed, AgentName: l.config.Name, Err: err})
	partial.Duration = time.Since(start)
	return partial, err
}
