package orchestration

import (
	"fmt"
	"reflect"

	"github.com/goadesign/agentcore/errs"
)

// Validate walks root's step tree and rejects cyclic references (only
// possible when steps are constructed as pointers and deliberately wired
// to reference an ancestor), Parallel steps with duplicate branch names,
// and nil sub-steps. Empty Groups and empty Parallels are accepted.
// Construction-time validation, per §4.6.
func Validate(root Step) error {
	return validateNode(root, make(map[uintptr]bool))
}

func validateNode(step Step, visited map[uintptr]bool) error {
	if step == nil {
		return &errs.InvalidLoop{Reason: "nil step in orchestration tree"}
	}

	if ptr, ok := pointerIdentity(step); ok {
		if visited[ptr] {
			return &errs.InvalidLoop{Reason: "cyclic orchestration step reference detected"}
		}
		visited[ptr] = true
	}

	if p, ok := step.(Parallel); ok {
		if err := validateParallelNames(p.Branches); err != nil {
			return err
		}
	}
	if p, ok := step.(*Parallel); ok {
		if err := validateParallelNames(p.Branches); err != nil {
			return err
		}
	}

	reporter, ok := step.(childReporter)
	if !ok {
		return nil
	}
	for _, child := range reporter.children() {
		if err := validateNode(child, visited); err != nil {
			return err
		}
	}
	return nil
}

func validateParallelNames(branches []Branch) error {
	seen := make(map[string]bool, len(branches))
	for _, b := range branches {
		if seen[b.Name] {
			return &errs.InvalidLoop{Reason: fmt.Sprintf("duplicate parallel branch name %q", b.Name)}
		}
		seen[b.Name] = true
	}
	return nil
}

// pointerIdentity returns step's underlying pointer value when step wraps a
// pointer type, so cycle detection can track "have we visited this exact
// node" instead of comparing step values (several variants hold slices and
// are not comparable).
func pointerIdentity(step Step) (uintptr, bool) {
	v := reflect.ValueOf(step)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}
