package ast

import (
	"fmt"
	"strings"
)

// RawRow is one "|"-delimited table line as handed over by the parser.
type RawRow struct {
	Line   int
	Values []string
}

// Cell is a single value of a data row.
type Cell struct {
	Value  string
	Line   int    // source line of the row the cell belongs to
	Column string // header name
}

func (c Cell) Sexp() Sexp {
	return Sexp{Symbol("cell"), c.Value}
}

// Row is the execution view of one data row.
type Row struct {
	Cells []Cell
}

// Line returns the source line of the row, taken from its first cell.
func (r Row) Line() int {
	if len(r.Cells) == 0 {
		return 0
	}
	return r.Cells[0].Line
}

// Hash maps column header to cell value.
func (r Row) Hash() map[string]string {
	h := make(map[string]string, len(r.Cells))
	for _, c := range r.Cells {
		h[c.Column] = c.Value
	}
	return h
}

func (r Row) Values() []string {
	vals := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		vals[i] = c.Value
	}
	return vals
}

// OutlineTable is the matrix of an Examples group: a header row followed by
// data rows. OutlineID is the owning outline's index in its Feature.
type OutlineTable struct {
	OutlineID int
	header    RawRow
	data      []RawRow
}

// NewOutlineTable validates the matrix and builds the table.
func NewOutlineTable(rows []RawRow, outlineID int) (*OutlineTable, error) {
	if len(rows) == 0 {
		return nil, &TableError{Reason: "missing header row"}
	}
	header := rows[0]
	if len(header.Values) == 0 {
		return nil, &TableError{Line: header.Line, Reason: "header row has no columns"}
	}
	seen := make(map[string]bool, len(header.Values))
	for _, name := range header.Values {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &TableError{Line: header.Line, Reason: "empty column name in header"}
		}
		if seen[name] {
			return nil, &TableError{Line: header.Line, Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		seen[name] = true
	}
	for _, r := range rows[1:] {
		if len(r.Values) != len(header.Values) {
			return nil, &TableError{
				Line:   r.Line,
				Reason: fmt.Sprintf("row has %d cells, header has %d", len(r.Values), len(header.Values)),
			}
		}
	}
	return &OutlineTable{
		OutlineID: outlineID,
		header:    header,
		data:      rows[1:],
	}, nil
}

func (t *OutlineTable) Header() []string {
	return t.header.Values
}

// Len is the number of data rows.
func (t *OutlineTable) Len() int {
	return len(t.data)
}

// Rows returns the data rows, in declaration order.
func (t *OutlineTable) Rows() []Row {
	rows := make([]Row, 0, len(t.data))
	for _, raw := range t.data {
		cells := make([]Cell, len(raw.Values))
		for i, v := range raw.Values {
			cells[i] = Cell{Value: v, Line: raw.Line, Column: t.header.Values[i]}
		}
		rows = append(rows, Row{Cells: cells})
	}
	return rows
}

// Raw returns the full matrix including the header.
func (t *OutlineTable) Raw() [][]string {
	out := [][]string{t.header.Values}
	for _, r := range t.data {
		out = append(out, r.Values)
	}
	return out
}

func (t *OutlineTable) Sexp() Sexp {
	s := Sexp{Symbol("table"), rawRowSexp(t.header)}
	for _, r := range t.data {
		s = append(s, rawRowSexp(r))
	}
	return s
}

func rawRowSexp(r RawRow) Sexp {
	s := Sexp{Symbol("row"), r.Line}
	for _, v := range r.Values {
		s = append(s, Sexp{Symbol("cell"), v})
	}
	return s
}

// ExamplesSection is the parser's (keyword, name, matrix) triple.
type ExamplesSection struct {
	Keyword string
	Name    string
	Line    int
	Rows    []RawRow
}

// Examples is a named group wrapping one OutlineTable.
type Examples struct {
	Keyword string
	Name    string
	Line    int
	Table   *OutlineTable
}

func newExamples(sec ExamplesSection, outlineID int) (*Examples, error) {
	table, err := NewOutlineTable(sec.Rows, outlineID)
	if err != nil {
		return nil, err
	}
	return &Examples{
		Keyword: sec.Keyword,
		Name:    sec.Name,
		Line:    sec.Line,
		Table:   table,
	}, nil
}

func (e *Examples) Sexp() Sexp {
	return Sexp{Symbol("examples"), e.Keyword, e.Name, e.Table.Sexp()}
}
