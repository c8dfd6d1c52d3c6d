package ast

import "fmt"

// Feature owns the outlines of one file. Tables refer back to their outline
// by index into Outlines.
type Feature struct {
	File     string
	Keyword  string
	Name     string
	Outlines []*ScenarioOutline

	// OnExecuted, when set, is called after the tally is updated.
	OnExecuted func(o *ScenarioOutline)

	executed []int
}

// AddOutline builds an outline owned by f. ID and Feature in p are
// overwritten.
func (f *Feature) AddOutline(p OutlineParams) (*ScenarioOutline, error) {
	p.ID = len(f.Outlines)
	p.Feature = f
	if p.File == "" {
		p.File = f.File
	}
	o, err := NewScenarioOutline(p)
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %w", p.File, p.Line, err)
	}
	f.Outlines = append(f.Outlines, o)
	return o, nil
}

// Outline resolves an outline by ID.
func (f *Feature) Outline(id int) (*ScenarioOutline, bool) {
	if id < 0 || id >= len(f.Outlines) {
		return nil, false
	}
	return f.Outlines[id], true
}

// OwnerOf resolves the outline a table belongs to.
func (f *Feature) OwnerOf(t *OutlineTable) (*ScenarioOutline, bool) {
	return f.Outline(t.OutlineID)
}

func (f *Feature) ScenarioExecuted(o *ScenarioOutline) {
	f.executed = append(f.executed, o.ID)
	if f.OnExecuted != nil {
		f.OnExecuted(o)
	}
}

// Executed returns the outline IDs of every completed row, in completion order.
func (f *Feature) Executed() []int {
	return append([]int(nil), f.executed...)
}
