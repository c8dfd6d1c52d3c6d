package ast

import "fmt"

// Status is the outcome of a step. StatusOutline marks a step template that
// belongs to a Scenario Outline and is never executed as-is.
type Status int

const (
	StatusOutline Status = iota
	StatusPassed
	StatusFailed
	StatusSkipped
	StatusPending
	StatusUndefined
)

var statusNames = map[Status]string{
	StatusOutline:   "outline",
	StatusPassed:    "passed",
	StatusFailed:    "failed",
	StatusSkipped:   "skipped",
	StatusPending:   "pending",
	StatusUndefined: "undefined",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus is the inverse of String.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}
