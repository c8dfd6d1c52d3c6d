// Package world provides the per-row execution context steps run against.
package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chriserin/outline/internal/ast"
	"github.com/chriserin/outline/internal/idgen"
)

// World is a key/value fixture that lives for exactly one examples row.
type World struct {
	id       string
	outline  string
	values   map[string]any
	afters   []func() error
	released bool
}

func (w *World) ID() string {
	return w.id
}

// Outline is the name of the outline the world was acquired for.
func (w *World) Outline() string {
	return w.outline
}

func (w *World) Get(key string) (any, bool) {
	v, ok := w.values[key]
	return v, ok
}

func (w *World) Set(key string, v any) {
	w.values[key] = v
}

// After registers fn to run when the world is released. Hooks run in
// reverse registration order.
func (w *World) After(fn func() error) {
	w.afters = append(w.afters, fn)
}

func (w *World) Released() bool {
	return w.released
}

// Factory hands out worlds and keeps count of the ones not yet released.
type Factory struct {
	logger   *slog.Logger
	live     int
	acquired int
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) Acquire(ctx context.Context, o *ast.ScenarioOutline) (*World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := idgen.NewWorldID()
	if err != nil {
		return nil, fmt.Errorf("acquiring world: %w", err)
	}
	w := &World{id: id, values: map[string]any{}}
	if o != nil {
		w.outline = o.Name
	}
	f.live++
	f.acquired++
	f.logger.Debug("world acquired", "world", id, "outline", w.outline)
	return w, nil
}

// Release runs the world's after hooks and drops its values. Releasing twice
// is a no-op.
func (f *Factory) Release(w *World) error {
	if w.released {
		return nil
	}
	var errs []error
	for i := len(w.afters) - 1; i >= 0; i-- {
		if err := w.afters[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.values = nil
	w.afters = nil
	w.released = true
	f.live--
	f.logger.Debug("world released", "world", w.id)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("releasing world %s: %w", w.id, err)
	}
	return nil
}

// Live is the number of acquired worlds not yet released.
func (f *Factory) Live() int {
	return f.live
}

// Acquired is the total number of worlds handed out.
func (f *Factory) Acquired() int {
	return f.acquired
}

// Scope acquires a world, passes it to fn and releases it on every exit
// path, panics included. A release error is returned only when fn succeeded.
func Scope(ctx context.Context, f *Factory, o *ast.ScenarioOutline, fn func(ast.World) error) (err error) {
	w, err := f.Acquire(ctx, o)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := f.Release(w); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(w)
}
