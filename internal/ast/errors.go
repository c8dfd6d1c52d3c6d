package ast

import (
	"errors"
	"fmt"
)

// ErrMalformedTable is wrapped by every TableError.
var ErrMalformedTable = errors.New("malformed examples table")

// TableError describes a structural problem found while building an
// OutlineTable. Line is the source line of the offending row, 0 if unknown.
type TableError struct {
	Line   int
	Reason string
}

func (e *TableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedTable, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedTable, e.Reason)
}

func (e *TableError) Unwrap() error {
	return ErrMalformedTable
}
