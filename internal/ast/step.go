package ast

import (
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`<([^<>]+)>`)

// Step is a single Given/When/Then line. Inside an outline its Name is a
// template that may contain <placeholder>s.
type Step struct {
	Keyword string
	Name    string
	Line    int
	Status  Status
}

// Placeholders returns the placeholder names in order of appearance.
func (s *Step) Placeholders() []string {
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s.Name, -1) {
		names = append(names, m[1])
	}
	return names
}

// Bind substitutes args into the template. The returned values are the
// argument values actually consumed, in order of appearance. Placeholders
// without a matching column are left untouched.
func (s *Step) Bind(args map[string]string) (string, []string) {
	var matched []string
	text := placeholderPattern.ReplaceAllStringFunc(s.Name, func(ph string) string {
		name := ph[1 : len(ph)-1]
		v, ok := args[name]
		if !ok {
			return ph
		}
		matched = append(matched, v)
		return v
	})
	return text, matched
}

func (s *Step) Sexp() Sexp {
	return Sexp{Symbol("step"), s.Line, s.Keyword, s.Name}
}

func (s *Step) textLength() int {
	return len(s.Keyword) + 1 + len(s.Name)
}
