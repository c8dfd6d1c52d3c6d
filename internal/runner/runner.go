// Package runner executes every examples row of a set of features and
// records the results.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/db"
	"github.com/chriserin/outline/internal/events"
	"github.com/chriserin/outline/internal/idgen"
	"github.com/chriserin/outline/internal/steps"
	"github.com/chriserin/outline/internal/ui"
	"github.com/chriserin/outline/internal/world"
)

// Recorder persists run results. *db.Store implements it.
type Recorder interface {
	RegisterFile(path string) (int64, bool, error)
	RegisterOutline(fileID int64, name string, line int) (int64, bool, error)
	BeginRun(runID string, dryRun bool) error
	RecordRow(r db.RowRecord) (int64, error)
	FinishRun(runID, status string) error
}

type Options struct {
	Steps       *steps.Registry
	DryRun      bool
	StrictCells bool
	Logger      *slog.Logger
	Publisher   events.Publisher
	Recorder    Recorder
	Out         io.Writer // progress lines, one per row
}

// Runner implements ast.Visitor for execution.
type Runner struct {
	opts    Options
	log     *slog.Logger
	pub     events.Publisher
	rec     Recorder
	out     io.Writer
	factory *world.Factory
	exec    *steps.Executor
	runID   string

	ctx         context.Context
	stepResults []steps.Result
}

func New(opts Options) (*Runner, error) {
	runID, err := idgen.NewRunID()
	if err != nil {
		return nil, err
	}
	r := &Runner{
		opts:  opts,
		log:   opts.Logger,
		pub:   opts.Publisher,
		rec:   opts.Recorder,
		out:   opts.Out,
		runID: runID,
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.pub == nil {
		r.pub = &events.NoopPublisher{}
	}
	if r.rec == nil {
		r.rec = discardRecorder{}
	}
	if r.out == nil {
		r.out = io.Discard
	}
	r.log = r.log.With("run", runID)
	r.factory = world.NewFactory(r.log)
	r.exec = &steps.Executor{
		Registry: opts.Steps,
		DryRun:   opts.DryRun,
		OnResult: func(res steps.Result) { r.stepResults = append(r.stepResults, res) },
	}
	return r, nil
}

func (r *Runner) RunID() string {
	return r.runID
}

// LiveWorlds is the number of worlds acquired and not released.
func (r *Runner) LiveWorlds() int {
	return r.factory.Live()
}

func (r *Runner) VisitComment(ast.Comment) error { return nil }
func (r *Runner) VisitTags(ast.Tags) error { return nil }
func (r *Runner) VisitScenarioName(string, string, string, int) error { return nil }
func (r *Runner) VisitStep(*ast.Step) error { return nil }
func (r *Runner) VisitExamples(*ast.Examples) error { return nil }

func (r *Runner) World(o *ast.ScenarioOutline, fn func(ast.World) error) error {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return world.Scope(ctx, r.factory, o, fn)
}

func (r *Runner) StepMother() ast.StepExecutor {
	return r.exec
}

// Run executes every row of every outline of features, in declaration order.
// An executor error stops the run; the partial result is returned with it.
func (r *Runner) Run(ctx context.Context, features ...*ast.Feature) (*Result, error) {
	r.ctx = ctx
	defer func() { r.ctx = nil }()

	start := time.Now()
	res := &Result{RunID: r.runID, DryRun: r.opts.DryRun}
	if err := r.rec.BeginRun(r.runID, r.opts.DryRun); err != nil {
		return nil, err
	}
	r.log.Info("run started", "features", len(features), "dry_run", r.opts.DryRun)

	for _, f := range features {
		if err := r.runFeature(ctx, f, res); err != nil {
			res.Elapsed = time.Since(start)
			r.finish(ctx, res, "errored")
			return res, err
		}
	}

	res.Elapsed = time.Since(start)
	r.finish(ctx, res, res.Summary.Status().String())
	return res, nil
}

func (r *Runner) runFeature(ctx context.Context, f *ast.Feature, res *Result) error {
	fileID, _, err := r.rec.RegisterFile(f.File)
	if err != nil {
		return err
	}

	prev := f.OnExecuted
	f.OnExecuted = func(o *ast.ScenarioOutline) {
		r.publish(ctx, events.TopicScenarioExecuted, events.ScenarioExecuted{
			RunID: r.runID, File: o.File, Outline: o.Name, Line: o.Line,
		})
		if prev != nil {
			prev(o)
		}
	}
	defer func() { f.OnExecuted = prev }()

	for _, o := range f.Outlines {
		outlineID, _, err := r.rec.RegisterOutline(fileID, o.Name, o.Line)
		if err != nil {
			return err
		}
		for _, ex := range o.Examples {
			for _, row := range ex.Table.Rows() {
				rr, err := r.runRow(ctx, o, ex, row)
				if err != nil {
					return fmt.Errorf("%s:%d: %w", o.File, row.Line(), err)
				}
				res.Rows = append(res.Rows, rr)
				res.Summary.add(rr.Status)
				if err := r.record(ctx, outlineID, rr); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Runner) runRow(ctx context.Context, o *ast.ScenarioOutline, ex *ast.Examples, row ast.Row) (RowResult, error) {
	rr := RowResult{
		File:     o.File,
		Outline:  o.Name,
		Examples: ex.Name,
		Line:     row.Line(),
		Values:   row.Values(),
	}
	o.SetOverflowHandler(func(step *ast.Step, dropped int) {
		rr.Overflow += dropped
		r.log.Warn("step consumed more cells than the row has",
			"location", fmt.Sprintf("%s:%d", o.File, row.Line()), "step", step.Name, "dropped", dropped)
	})
	defer o.SetOverflowHandler(nil)

	r.stepResults = nil
	final, err := o.ExecuteRow(ctx, row, r, func(c ast.Cell, s ast.Status) {
		rr.Cells = append(rr.Cells, CellResult{Cell: c, Status: s})
	})
	rr.Steps = r.stepResults
	r.stepResults = nil
	if err != nil {
		return rr, err
	}

	rr.Final = final
	rr.Status = rowOutcome(final, rr.Steps)
	if rr.Overflow > 0 && r.opts.StrictCells && rr.Status == ast.StatusPassed {
		rr.Status = ast.StatusFailed
	}

	ui.RowLine(r.out, fmt.Sprintf("%s:%d", rr.File, rr.Line), rr.Status, rr.Values)
	for _, s := range rr.Steps {
		if s.Status == ast.StatusFailed && s.Err != nil {
			ui.StepFailure(r.out, s.Text, s.Err)
		}
	}
	r.log.Debug("row executed", "outline", o.Name, "line", rr.Line, "status", rr.Status.String())
	return rr, nil
}

func (r *Runner) record(ctx context.Context, outlineID int64, rr RowResult) error {
	rec := db.RowRecord{
		RunID:     r.runID,
		OutlineID: outlineID,
		Examples:  rr.Examples,
		Line:      rr.Line,
		Status:    rr.Status.String(),
	}
	ev := events.RowCompleted{
		RunID:    r.runID,
		File:     rr.File,
		Outline:  rr.Outline,
		Examples: rr.Examples,
		Line:     rr.Line,
		Status:   rr.Status.String(),
	}
	for i, c := range rr.Cells {
		rec.Cells = append(rec.Cells, db.CellRecord{Position: i, Column: c.Column, Value: c.Value, Status: c.Status.String()})
		ev.Cells = append(ev.Cells, events.CellStatus{Column: c.Column, Value: c.Value, Status: c.Status.String()})
	}
	if _, err := r.rec.RecordRow(rec); err != nil {
		return err
	}
	r.publish(ctx, events.TopicRowCompleted, ev)
	return nil
}

func (r *Runner) finish(ctx context.Context, res *Result, status string) {
	if err := r.rec.FinishRun(r.runID, status); err != nil {
		r.log.Error("failed to finish run", "err", err)
	}
	r.publish(ctx, events.TopicRunFinished, events.RunFinished{
		RunID:   r.runID,
		Status:  status,
		Rows:    res.Summary.Rows,
		Counts:  res.Summary.Counts(),
		DryRun:  res.DryRun,
		Elapsed: res.Elapsed.String(),
	})
	r.log.Info("run finished", "status", status, "rows", res.Summary.Rows, "elapsed", res.Elapsed)
}

// publish is best effort: a broken event sink never fails a run.
func (r *Runner) publish(ctx context.Context, topic string, event any) {
	if err := r.pub.Publish(ctx, topic, event); err != nil {
		r.log.Warn("failed to publish event", "topic", topic, "err", err)
	}
}

type discardRecorder struct{}

func (discardRecorder) RegisterFile(string) (int64, bool, error) { return 0, false, nil }
func (discardRecorder) RegisterOutline(int64, string, int) (int64, bool, error) { return 0, false, nil }
func (discardRecorder) BeginRun(string, bool) error { return nil }
func (discardRecorder) RecordRow(db.RowRecord) (int64, error) { return 0, nil }
func (discardRecorder) FinishRun(string, string) error { return nil }
