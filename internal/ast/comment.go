package ast

import "strings"

// Comment holds the "#" lines that precede a scenario, without the marker.
type Comment struct {
	Lines []string
}

func (c Comment) Empty() bool {
	return strings.TrimSpace(c.Text()) == ""
}

func (c Comment) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Sexp returns nil for an empty comment.
func (c Comment) Sexp() Sexp {
	if c.Empty() {
		return nil
	}
	return Sexp{Symbol("comment"), c.Text()}
}

// Tags is the ordered set of tag names (with their leading "@").
type Tags struct {
	Names []string
}

func NewTags(names ...string) Tags {
	seen := make(map[string]bool, len(names))
	var t Tags
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		t.Names = append(t.Names, n)
	}
	return t
}

func (t Tags) Has(name string) bool {
	for _, n := range t.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Sexp returns one (:tag name) entry per tag, meant to be spliced into the
// enclosing list.
func (t Tags) Sexp() []Sexp {
	out := make([]Sexp, 0, len(t.Names))
	for _, n := range t.Names {
		out = append(out, Sexp{Symbol("tag"), n})
	}
	return out
}
