package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/world"
)

// Result describes one executed step of one row.
type Result struct {
	Step     *ast.Step
	Text     string
	Line     int
	Status   ast.Status
	Err      error
	Duration time.Duration
}

// Executor binds a row's arguments into a step template and runs the
// matching definition.
type Executor struct {
	Registry *Registry
	// DryRun binds and matches steps without running them.
	DryRun bool
	// OnResult, when set, receives every step result.
	OnResult func(Result)
}

// ExecuteWithArguments implements ast.StepExecutor. Step failures become
// StatusFailed; only an ambiguous match or a cancelled context is returned
// as an error.
func (e *Executor) ExecuteWithArguments(ctx context.Context, step *ast.Step, args map[string]string, w ast.World, previous ast.Status, line int) (ast.Status, []string, error) {
	text, matched := step.Bind(args)
	if err := ctx.Err(); err != nil {
		return ast.StatusFailed, matched, err
	}

	var m *Match
	if e.Registry != nil {
		var err error
		m, err = e.Registry.Match(text)
		if err != nil {
			return ast.StatusFailed, matched, err
		}
	}

	res := Result{Step: step, Text: text, Line: line}
	switch {
	case m == nil && (e.Registry != nil || !e.DryRun):
		res.Status = ast.StatusUndefined
	case previous != ast.StatusPassed || e.DryRun:
		res.Status = ast.StatusSkipped
	default:
		ww, _ := w.(*world.World)
		start := time.Now()
		res.Err = invoke(ctx, m, ww)
		res.Duration = time.Since(start)
		res.Status = statusOf(res.Err)
	}

	if e.OnResult != nil {
		e.OnResult(res)
	}
	return res.Status, matched, nil
}

func invoke(ctx context.Context, m *Match, w *world.World) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.Definition.Handler(ctx, w, m.Args...)
}

func statusOf(err error) ast.Status {
	switch {
	case err == nil:
		return ast.StatusPassed
	case errors.Is(err, ErrPending):
		return ast.StatusPending
	default:
		return ast.StatusFailed
	}
}
