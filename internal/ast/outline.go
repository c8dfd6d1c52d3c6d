package ast

import (
	"context"
	"fmt"
)

// OutlineParams is everything the parser hands over to build an outline.
type OutlineParams struct {
	ID         int
	File       string
	Comment    Comment
	Tags       Tags
	Line       int
	Keyword    string
	Name       string
	Steps      []*Step
	Examples   []ExamplesSection
	Feature    CompletionSink
	OnOverflow OverflowFunc
}

// ScenarioOutline is a parameterized scenario: step templates plus one or
// more Examples groups, executed once per data row.
type ScenarioOutline struct {
	ID       int
	File     string
	Comment  Comment
	Tags     Tags
	Line     int
	Keyword  string
	Name     string
	Steps    []*Step
	Examples []*Examples

	feature    CompletionSink
	onOverflow OverflowFunc
}

// NewScenarioOutline builds the outline and validates every examples table.
// Every step's status is forced to StatusOutline.
func NewScenarioOutline(p OutlineParams) (*ScenarioOutline, error) {
	o := &ScenarioOutline{
		ID:         p.ID,
		File:       p.File,
		Comment:    p.Comment,
		Tags:       p.Tags,
		Line:       p.Line,
		Keyword:    p.Keyword,
		Name:       p.Name,
		Steps:      p.Steps,
		feature:    p.Feature,
		onOverflow: p.OnOverflow,
	}
	for _, s := range o.Steps {
		s.Status = StatusOutline
	}
	for _, sec := range p.Examples {
		ex, err := newExamples(sec, o.ID)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", sec.Keyword, sec.Name, err)
		}
		o.Examples = append(o.Examples, ex)
	}
	return o, nil
}

func (o *ScenarioOutline) SetOverflowHandler(fn OverflowFunc) {
	o.onOverflow = fn
}

func (o *ScenarioOutline) Location() string {
	return fmt.Sprintf("%s:%d", o.File, o.Line)
}

// RowCount is the number of data rows across all examples groups.
func (o *ScenarioOutline) RowCount() int {
	n := 0
	for _, e := range o.Examples {
		n += e.Table.Len()
	}
	return n
}

// Pending is always false: pendingness belongs to a step in a row, never
// to the template.
func (o *ScenarioOutline) Pending() bool {
	return false
}

// Accept walks the outline for v. Calling it twice yields the same callbacks.
func (o *ScenarioOutline) Accept(v Visitor) error {
	return Traverse(o, VisitorHandlers(v))
}

// ExecuteRow runs every step template once against row inside a fresh world
// and reports each consumed cell, left to right, with the status of the step
// that consumed it. The returned status is the last step's outbound status.
// Executor errors are returned after the world has been released.
func (o *ScenarioOutline) ExecuteRow(ctx context.Context, row Row, v Visitor, report ReportFunc) (Status, error) {
	if report == nil {
		report = func(Cell, Status) {}
	}
	final := StatusPassed
	err := v.World(o, func(w World) error {
		args := row.Hash()
		line := row.Line()
		exec := v.StepMother()
		cellIndex := 0

		var err error
		final, err = foldSteps(o.Steps, StatusPassed, func(previous Status, step *Step) (Status, error) {
			status, matched, err := exec.ExecuteWithArguments(ctx, step, args, w, previous, line)
			if err != nil {
				return previous, err
			}
			// A step without substitutions still consumes one cell.
			slots := len(matched)
			if slots == 0 {
				slots = 1
			}
			for i := 0; i < slots; i++ {
				if cellIndex >= len(row.Cells) {
					if o.onOverflow != nil {
						o.onOverflow(step, slots-i)
					}
					break
				}
				report(row.Cells[cellIndex], status)
				cellIndex++
			}
			return status, nil
		})
		return err
	})
	if err != nil {
		return final, err
	}
	if o.feature != nil {
		o.feature.ScenarioExecuted(o)
	}
	return final, nil
}

// foldSteps threads a status through every step. It never stops early on a
// non-passed status; only an error ends the fold.
func foldSteps(steps []*Step, initial Status, fn func(Status, *Step) (Status, error)) (Status, error) {
	acc := initial
	for _, s := range steps {
		next, err := fn(acc, s)
		if err != nil {
			return acc, err
		}
		acc = next
	}
	return acc, nil
}

// Sexp is the canonical serialization. Empty comment, tag and step sections
// contribute nothing.
func (o *ScenarioOutline) Sexp() Sexp {
	s := Sexp{Symbol("scenario_outline"), o.Keyword, o.Name}
	if c := o.Comment.Sexp(); c != nil {
		s = append(s, c)
	}
	for _, t := range o.Tags.Sexp() {
		s = append(s, t)
	}
	for _, st := range o.Steps {
		s = append(s, st.Sexp())
	}
	for _, e := range o.Examples {
		s = append(s, e.Sexp())
	}
	return s
}

func (o *ScenarioOutline) textLength() int {
	return len(o.Keyword) + 2 + len(o.Name)
}

// sourceIndent is the padding a formatter needs after the name so that the
// location comment lines up with the longest step.
func (o *ScenarioOutline) sourceIndent() int {
	longest := o.textLength()
	for _, s := range o.Steps {
		// steps are printed two columns deeper than the outline name
		if n := s.textLength() + 2; n > longest {
			longest = n
		}
	}
	return longest - o.textLength()
}
