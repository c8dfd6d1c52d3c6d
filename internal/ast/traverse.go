package ast

// Node is the closed set of things Traverse knows how to walk.
type Node interface {
	node()
}

func (*ScenarioOutline) node() {}
func (*Examples) node()        {}
func (*Step) node()            {}
func (Comment) node()          {}
func (Tags) node()             {}

// Handlers is a record of optional traversal callbacks. A nil field skips
// that kind of node.
type Handlers struct {
	Comment      func(Comment) error
	Tags         func(Tags) error
	ScenarioName func(keyword, name, location string, indent int) error
	Step         func(*Step) error
	Examples     func(*Examples) error
}

// Traverse walks n and calls the matching handlers. An outline is visited as
// comment, tags, name, steps in order, then examples in order. The first
// handler error stops the walk and is returned as-is.
func Traverse(n Node, h Handlers) error {
	switch x := n.(type) {
	case *ScenarioOutline:
		if err := Traverse(x.Comment, h); err != nil {
			return err
		}
		if err := Traverse(x.Tags, h); err != nil {
			return err
		}
		if h.ScenarioName != nil {
			if err := h.ScenarioName(x.Keyword, x.Name, x.Location(), x.sourceIndent()); err != nil {
				return err
			}
		}
		for _, s := range x.Steps {
			if err := Traverse(s, h); err != nil {
				return err
			}
		}
		for _, e := range x.Examples {
			if err := Traverse(e, h); err != nil {
				return err
			}
		}
	case *Examples:
		if h.Examples != nil {
			return h.Examples(x)
		}
	case *Step:
		if h.Step != nil {
			return h.Step(x)
		}
	case Comment:
		if h.Comment != nil {
			return h.Comment(x)
		}
	case Tags:
		if h.Tags != nil {
			return h.Tags(x)
		}
	}
	return nil
}

// VisitorHandlers adapts a Visitor to Handlers.
func VisitorHandlers(v Visitor) Handlers {
	return Handlers{
		Comment:      v.VisitComment,
		Tags:         v.VisitTags,
		ScenarioName: v.VisitScenarioName,
		Step:         v.VisitStep,
		Examples:     v.VisitExamples,
	}
}
