// Package events publishes run progress to an external sink.
package events

import "context"

// Event topic constants
const (
	TopicScenarioExecuted = "outline.scenario.executed"
	TopicRowCompleted     = "outline.row.completed"
	TopicRunFinished      = "outline.run.finished"
)

// ScenarioExecuted is published when one examples row of an outline finishes.
type ScenarioExecuted struct {
	RunID   string `json:"run_id"`
	File    string `json:"file"`
	Outline string `json:"outline"`
	Line    int    `json:"line"`
}

type CellStatus struct {
	Column string `json:"column"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

type RowCompleted struct {
	RunID    string       `json:"run_id"`
	File     string       `json:"file"`
	Outline  string       `json:"outline"`
	Examples string       `json:"examples"`
	Line     int          `json:"line"`
	Status   string       `json:"status"`
	Cells    []CellStatus `json:"cells"`
}

type RunFinished struct {
	RunID   string         `json:"run_id"`
	Status  string         `json:"status"`
	Rows    int            `json:"rows"`
	Counts  map[string]int `json:"counts"`
	DryRun  bool           `json:"dry_run"`
	Elapsed string         `json:"elapsed"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
