package tool

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goadesign/agentcore/errs"
)

// Strategy controls how a ParallelExecutor batch reacts to individual call
// failures (§4.3).
type Strategy int

const (
	// ContinueOnError runs every call to completion; failures are carried
	// in their Result.Err and the batch call returns a nil error.
	ContinueOnError Strategy = iota
	// FailFast cancels the remaining in-flight calls as soon as one call
	// fails and returns that failure as the batch error.
	FailFast
	// CollectErrors runs every call to completion like ContinueOnError,
	// but the batch call also returns a single composite error aggregating
	// every failure, using ToolName "parallel_execution".
	CollectErrors
)

// ParallelExecutor runs a batch of Calls against a Registry concurrently,
// preserving each Result at its submission index regardless of completion
// order (§8: order-preservation invariant).
type ParallelExecutor struct {
	registry *Registry
	strategy Strategy
	limit    int
}

// ParallelOption configures a ParallelExecutor at construction time.
type ParallelOption func(*ParallelExecutor)

// WithStrategy sets the failure-handling strategy. Defaults to ContinueOnError.
func WithStrategy(s Strategy) ParallelOption {
	return func(e *ParallelExecutor) { e.strategy = s }
}

// WithConcurrencyLimit bounds how many calls run simultaneously. Values <= 0
// mean unbounded.
func WithConcurrencyLimit(n int) ParallelOption {
	return func(e *ParallelExecutor) { e.limit = n }
}

// NewParallelExecutor constructs a ParallelExecutor over registry.
func NewParallelExecutor(registry *Registry, opts ...ParallelOption) *ParallelExecutor {
	e := &ParallelExecutor{registry: registry, limit: 8}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs calls concurrently and returns one Result per call, indexed
// identically to calls. For a single call it takes a fast path with no
// goroutine overhead.
func (e *ParallelExecutor) Execute(ctx context.Context, calls []Call) ([]Result, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	for _, call := range calls {
		if !e.registry.Contains(call.Name) {
			return nil, &errs.ToolNotFound{Name: call.Name}
		}
	}
	if len(calls) == 1 {
		return []Result{e.registry.Execute(ctx, calls[0])}, nil
	}

	results := make([]Result, len(calls))

	if e.strategy == FailFast {
		g, gCtx := errgroup.WithContext(ctx)
		if e.limit > 0 {
			g.SetLimit(e.limit)
		}
		for i, call := range calls {
			i, call := i, call
			g.Go(func() error {
				res := e.registry.Execute(gCtx, call)
				results[i] = res
				return res.Err
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}
		return results, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = e.registry.Execute(gCtx, call)
			return nil
		})
	}
	_ = g.Wait()

	if e.strategy == CollectErrors {
		var msgs []string
		for _, r := range results {
			if r.Err != nil {
				msgs = append(msgs, fmt.Sprintf("%s: %v", r.Name, r.Err))
			}
		}
		if len(msgs) > 0 {
			return results, &errs.ToolExecutionFailed{
				ToolName:   "parallel_execution",
				Underlying: fmt.Errorf("%d of %d calls failed: %s", len(msgs), len(calls), strings.Join(msgs, "; ")),
			}
		}
	}

	return results, nil
}
