package guardrail

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/goadesign/agentcore/errs"
	"github.com/goadesign/agentcore/value"
)

// errStopOnFirstTripwire cancels the parallel group's derived context as
// soon as a tripwire fires under Configuration.StopOnFirstTripwire. It never
// escapes runParallel; g.Wait()'s return value is discarded since the
// reported tripwire is always picked from outcomes, not from this error.
var errStopOnFirstTripwire = errors.New("guardrail: stop on first tripwire")

// Configuration controls how a Runner executes its guardrails.
type Configuration struct {
	// RunInParallel executes all guardrails concurrently instead of in
	// declaration order. Either way, the reported tripwire is always the
	// one declared earliest among those that fired.
	RunInParallel bool
	// StopOnFirstTripwire, in sequential mode, stops evaluating further
	// guardrails as soon as one trips instead of running the whole list. In
	// parallel mode it cancels the remaining in-flight evaluators' context
	// as soon as one trips; a guardrail that doesn't itself observe context
	// cancellation still runs to completion, but any side effect gated on
	// ctx.Done() is skipped.
	StopOnFirstTripwire bool
}

// RunnerOption configures a Runner at construction time.
type RunnerOption func(*Runner)

// WithConfiguration overrides the default Configuration.
func WithConfiguration(cfg Configuration) RunnerOption {
	return func(r *Runner) { r.cfg = cfg }
}

// Runner evaluates an ordered list of guardrails against a candidate value
// and surfaces the first tripwire, if any, as an error.
type Runner struct {
	guardrails []Guardrail
	cfg        Configuration
}

// NewRunner constructs a Runner over guardrails, run in declaration order.
// By default StopOnFirstTripwire is true and RunInParallel is false.
func NewRunner(guardrails []Guardrail, opts ...RunnerOption) *Runner {
	r := &Runner{guardrails: guardrails, cfg: Configuration{StopOnFirstTripwire: true}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// outcome pairs a guardrail's declaration index with its evaluation result,
// so the reported tripwire (when several fire under RunInParallel) is
// always the earliest-declared one rather than whichever goroutine won.
type outcome struct {
	index  int
	result Result
	err    error
}

// Run evaluates every guardrail against candidate. class and toolName are
// carried into the resulting *errs.TripwireTriggered so callers can tell
// which guardrail class and, for tool guardrails, which tool fired.
func (r *Runner) Run(ctx context.Context, class errs.TripwireClass, toolName string, candidate value.Value) error {
	if len(r.guardrails) == 0 {
		return nil
	}
	if r.cfg.RunInParallel {
		return r.runParallel(ctx, class, toolName, candidate)
	}
	return r.runSequential(ctx, class, toolName, candidate)
}

func (r *Runner) runSequential(ctx context.Context, class errs.TripwireClass, toolName string, candidate value.Value) error {
	var firstTripwire error
	for _, g := range r.guardrails {
		if ctx.Err() != nil {
			return &errs.Cancelled{}
		}
		res, err := g.Check(ctx, candidate)
		if err != nil {
			return &errs.ExecutionFailed{GuardrailName: g.Name, Underlying: err}
		}
		if res.TripwireTriggered {
			if r.cfg.StopOnFirstTripwire {
				return tripwireErr(class, g.Name, toolName, res)
			}
			if firstTripwire == nil {
				firstTripwire = tripwireErr(class, g.Name, toolName, res)
			}
		}
	}
	return firstTripwire
}

func (r *Runner) runParallel(ctx context.Context, class errs.TripwireClass, toolName string, candidate value.Value) error {
	outcomes := make([]outcome, len(r.guardrails))

	g, gCtx := errgroup.WithContext(ctx)
	for i, gr := range r.guardrails {
		i, gr := i, gr
		g.Go(func() error {
			res, err := gr.Check(gCtx, candidate)
			outcomes[i] = outcome{index: i, result: res, err: err}
			if err == nil && res.TripwireTriggered && r.cfg.StopOnFirstTripwire {
				return errStopOnFirstTripwire
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(a, b int) bool { return outcomes[a].index < outcomes[b].index })

	for _, o := range outcomes {
		if o.err != nil && !errors.Is(o.err, context.Canceled) {
			return &errs.ExecutionFailed{GuardrailName: r.guardrails[o.index].Name, Underlying: o.err}
		}
	}
	for _, o := range outcomes {
		if o.result.TripwireTriggered {
			return tripwireErr(class, r.guardrails[o.index].Name, toolName, o.result)
		}
	}
	return nil
}

func tripwireErr(class errs.TripwireClass, guardrailName, toolName string, res Result) error {
	return &errs.TripwireTriggered{
		Class:         class,
		GuardrailName: guardrailName,
		ToolName:      toolName,
		Message:       res.Message,
		OutputInfo:    value.ToAny(res.OutputInfo),
	}
}
