package runner

import (
	"time"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/steps"
)

// CellResult is one attributed cell.
type CellResult struct {
	ast.Cell
	Status ast.Status
}

// RowResult is the outcome of one examples row.
type RowResult struct {
	File     string
	Outline  string
	Examples string
	Line     int
	Values   []string
	// Final is the last step's outbound status, as returned by ExecuteRow.
	Final ast.Status
	// Status is the row's outcome: the first step status that is neither
	// passed nor skipped, or Final when there is none.
	Status   ast.Status
	Cells    []CellResult
	Steps    []steps.Result
	Overflow int
}

// Summary counts rows by outcome.
type Summary struct {
	Rows      int
	Passed    int
	Failed    int
	Skipped   int
	Pending   int
	Undefined int
}

func (s *Summary) add(st ast.Status) {
	s.Rows++
	switch st {
	case ast.StatusPassed:
		s.Passed++
	case ast.StatusFailed:
		s.Failed++
	case ast.StatusSkipped:
		s.Skipped++
	case ast.StatusPending:
		s.Pending++
	case ast.StatusUndefined:
		s.Undefined++
	}
}

// Status is the worst outcome of the run.
func (s Summary) Status() ast.Status {
	switch {
	case s.Failed > 0:
		return ast.StatusFailed
	case s.Undefined > 0:
		return ast.StatusUndefined
	case s.Pending > 0:
		return ast.StatusPending
	case s.Skipped > 0 && s.Passed == 0:
		return ast.StatusSkipped
	}
	return ast.StatusPassed
}

// Counts returns the non-zero counters keyed by status name.
func (s Summary) Counts() map[string]int {
	out := map[string]int{}
	for st, n := range map[ast.Status]int{
		ast.StatusPassed:    s.Passed,
		ast.StatusFailed:    s.Failed,
		ast.StatusSkipped:   s.Skipped,
		ast.StatusPending:   s.Pending,
		ast.StatusUndefined: s.Undefined,
	} {
		if n > 0 {
			out[st.String()] = n
		}
	}
	return out
}

// Result is the outcome of a whole run.
type Result struct {
	RunID   string
	DryRun  bool
	Rows    []RowResult
	Summary Summary
	Elapsed time.Duration
}

func rowOutcome(final ast.Status, results []steps.Result) ast.Status {
	for _, r := range results {
		if r.Status != ast.StatusPassed && r.Status != ast.StatusSkipped {
			return r.Status
		}
	}
	return final
}
