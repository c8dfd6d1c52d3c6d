// Package steps matches bound step text against step definitions and runs
// them. Executor implements ast.StepExecutor.
package steps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chriserin/outline/internal/world"
)

// ErrPending is returned by a handler whose step is not implemented yet.
var ErrPending = errors.New("pending")

// Handler runs one step. args are the regexp's capture groups.
type Handler func(ctx context.Context, w *world.World, args ...string) error

// Definition is a compiled step pattern and its handler.
type Definition struct {
	Pattern *regexp.Regexp
	Handler Handler
}

// AmbiguousError is returned when more than one definition matches a step.
type AmbiguousError struct {
	Text     string
	Patterns []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous step %q matches %s", e.Text, strings.Join(e.Patterns, ", "))
}

// Registry holds step definitions in definition order.
type Registry struct {
	defs []*Definition
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Define compiles pattern, anchoring it at both ends when it is not already.
func (r *Registry) Define(pattern string, fn Handler) error {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compiling step pattern: %w", err)
	}
	r.defs = append(r.defs, &Definition{Pattern: re, Handler: fn})
	return nil
}

// MustDefine is Define for patterns known to be valid.
func (r *Registry) MustDefine(pattern string, fn Handler) {
	if err := r.Define(pattern, fn); err != nil {
		panic(err)
	}
}

func (r *Registry) Len() int {
	return len(r.defs)
}

// Match is a definition together with the captured arguments.
type Match struct {
	Definition *Definition
	Args       []string
}

// Match finds the single definition matching text. It returns nil when
// nothing matches.
func (r *Registry) Match(text string) (*Match, error) {
	var found []*Match
	for _, d := range r.defs {
		sub := d.Pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		found = append(found, &Match{Definition: d, Args: sub[1:]})
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	amb := &AmbiguousError{Text: text}
	for _, m := range found {
		amb.Patterns = append(amb.Patterns, m.Definition.Pattern.String())
	}
	return nil, amb
}
