package ast

import (
	"context"
	"fmt"
	"strings"
)

type fakeWorld struct {
	id       string
	released bool
	seen     map[string]string
}

func (w *fakeWorld) ID() string { return w.id }

// recordingVisitor records traversal callbacks and hands out fakeWorlds.
type recordingVisitor struct {
	calls  []string
	worlds []*fakeWorld
	exec   StepExecutor
	err    error
	failOn string
}

func (v *recordingVisitor) record(s string) error {
	v.calls = append(v.calls, s)
	if v.failOn != "" && strings.HasPrefix(s, v.failOn) {
		return v.err
	}
	return nil
}

func (v *recordingVisitor) VisitComment(c Comment) error { return v.record("comment:" + c.Text()) }
func (v *recordingVisitor) VisitTags(t Tags) error {
	return v.record("tags:" + strings.Join(t.Names, ","))
}
func (v *recordingVisitor) VisitScenarioName(keyword, name, location string, indent int) error {
	return v.record(fmt.Sprintf("name:%s:%s:%s", keyword, name, location))
}
func (v *recordingVisitor) VisitStep(s *Step) error { return v.record("step:" + s.Name) }
func (v *recordingVisitor) VisitExamples(e *Examples) error {
	return v.record("examples:" + e.Name)
}

func (v *recordingVisitor) World(o *ScenarioOutline, fn func(World) error) (err error) {
	w := &fakeWorld{id: fmt.Sprintf("w%d", len(v.worlds)), seen: map[string]string{}}
	v.worlds = append(v.worlds, w)
	defer func() { w.released = true }()
	return fn(w)
}

func (v *recordingVisitor) StepMother() StepExecutor { return v.exec }

// scriptedExecutor binds placeholders and returns scripted statuses.
type scriptedExecutor struct {
	statuses  []Status
	matched   [][]string
	calls     []executorCall
	failAt    int
	failErr   error
	panicAt   int
	callCount int
}

type executorCall struct {
	step     string
	args     map[string]string
	world    string
	previous Status
	line     int
}

func (e *scriptedExecutor) ExecuteWithArguments(ctx context.Context, step *Step, args map[string]string, w World, previous Status, line int) (Status, []string, error) {
	e.callCount++
	n := e.callCount
	e.calls = append(e.calls, executorCall{step: step.Name, args: args, world: w.ID(), previous: previous, line: line})
	if fw, ok := w.(*fakeWorld); ok {
		for k, v := range args {
			fw.seen[k] = v
		}
	}
	if e.panicAt == n {
		panic("step exploded")
	}
	if e.failAt == n {
		return StatusFailed, nil, e.failErr
	}
	var matched []string
	if e.matched != nil {
		matched = e.matched[n-1]
	} else {
		_, matched = step.Bind(args)
	}
	status := StatusPassed
	if e.statuses != nil {
		status = e.statuses[n-1]
	}
	if previous != StatusPassed {
		status = StatusSkipped
	}
	return status, matched, nil
}

type reported struct {
	cell   Cell
	status Status
}

func collect(into *[]reported) ReportFunc {
	return func(c Cell, s Status) {
		*into = append(*into, reported{cell: c, status: s})
	}
}

func cukesOutline(f *Feature) (*ScenarioOutline, error) {
	return f.AddOutline(OutlineParams{
		File:    "cukes.feature",
		Line:    3,
		Keyword: "Scenario Outline",
		Name:    "eating",
		Steps: []*Step{
			{Keyword: "Given", Name: "I have <start> cukes", Line: 4, Status: StatusPassed},
			{Keyword: "When", Name: "I eat <eat>", Line: 5, Status: StatusFailed},
			{Keyword: "Then", Name: "I should have <left> cukes", Line: 6},
		},
		Examples: []ExamplesSection{{
			Keyword: "Examples",
			Line:    8,
			Rows: []RawRow{
				{Line: 9, Values: []string{"start", "eat", "left"}},
				{Line: 10, Values: []string{"12", "5", "7"}},
				{Line: 11, Values: []string{"20", "5", "15"}},
			},
		}},
	})
}
