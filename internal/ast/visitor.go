package ast

import "context"

// World is the per-row execution context. The core never looks inside it.
type World interface {
	ID() string
}

// Visitor receives traversal callbacks and supplies the collaborators a row
// needs to run.
type Visitor interface {
	VisitComment(Comment) error
	VisitTags(Tags) error
	VisitScenarioName(keyword, name, location string, indent int) error
	VisitStep(*Step) error
	VisitExamples(*Examples) error

	// World must call fn with a fresh world and release it on every exit
	// path, including a panic or error from fn.
	World(o *ScenarioOutline, fn func(World) error) error
	StepMother() StepExecutor
}

// StepExecutor runs one step template against a row's arguments. It returns
// the outbound status and the placeholder values the step consumed. A
// non-passed previous status must degrade the step to StatusSkipped.
type StepExecutor interface {
	ExecuteWithArguments(ctx context.Context, step *Step, args map[string]string, w World, previous Status, line int) (Status, []string, error)
}

// CompletionSink is notified each time a row of an outline finishes.
type CompletionSink interface {
	ScenarioExecuted(o *ScenarioOutline)
}

// ReportFunc receives each attributed cell with the status of the step
// that consumed it.
type ReportFunc func(cell Cell, status Status)

// OverflowFunc is told how many slots a step consumed past the last cell.
type OverflowFunc func(step *Step, dropped int)
