// Package prompt implements core.Chooser for interactive terminals and for
// answers given up front (flags, config, scripts).
package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/aretw0/airfetch/pkg/core"
)

// Select asks the user to pick an item from a list in the terminal.
type Select[T comparable] struct {
	Title      string
	In         io.Reader
	Out        io.Writer
	Accessible bool // Numbered prompt instead of the full-screen list
}

// NewSelect creates a terminal chooser.
func NewSelect[T comparable](title string) *Select[T] {
	return &Select[T]{Title: title}
}

// Choose implements core.Chooser. Aborting the prompt (esc, ctrl+c) yields
// core.ErrNoSelection.
func (s *Select[T]) Choose(ctx context.Context, items []T, label func(T) string) (T, error) {
	var choice T
	if len(items) == 0 {
		return choice, core.ErrNoSelection
	}

	opts := make([]huh.Option[T], len(items))
	for i, it := range items {
		opts[i] = huh.NewOption(label(it), it)
	}

	field := huh.NewSelect[T]().
		Title(s.Title).
		Options(opts...).
		Value(&choice)

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(s.Accessible)
	if s.In != nil {
		form = form.WithInput(s.In)
	}
	if s.Out != nil {
		form = form.WithOutput(s.Out)
	}

	if err := form.RunWithContext(ctx); err != nil {
		var zero T
		if errors.Is(err, huh.ErrUserAborted) {
			return zero, core.ErrNoSelection
		}
		return zero, err
	}
	return choice, nil
}

var _ core.Chooser[core.FilterOption] = (*Select[core.FilterOption])(nil)
