package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/aretw0/airfetch/pkg/core"
)

var (
	colorMuted   = lipgloss.Color("#a6adc8")
	colorInfo    = lipgloss.Color("#74c7ec")
	colorSuccess = lipgloss.Color("#a6e3a1")
	colorFailure = lipgloss.Color("#f38ba8")
)

// Terminal prints notices as single styled lines, like toasts in a shell.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	source lipgloss.Style
	styles map[core.NoticeKind]lipgloss.Style
}

// TerminalOption configures a Terminal.
type TerminalOption func(*lipgloss.Renderer)

// WithPlain disables colors regardless of what the terminal supports.
func WithPlain() TerminalOption {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(termenv.Ascii)
	}
}

// NewTerminal creates a notifier writing to w. Color support is detected
// from w and the environment (NO_COLOR is honored).
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	r := lipgloss.NewRenderer(w)
	if termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}
	for _, opt := range opts {
		opt(r)
	}

	base := r.NewStyle()
	return &Terminal{
		w:      w,
		source: base.Foreground(colorMuted),
		styles: map[core.NoticeKind]lipgloss.Style{
			core.NoticeFetched:  base.Foreground(colorInfo),
			core.NoticePlanned:  base.Foreground(colorInfo),
			core.NoticeProgress: base.Foreground(colorMuted),
			core.NoticeFailure:  base.Foreground(colorFailure).Bold(true),
			core.NoticeComplete: base.Foreground(colorSuccess),
			core.NoticeDone:     base.Foreground(colorSuccess).Bold(true),
		},
	}
}

// Notify implements core.Notifier.
func (t *Terminal) Notify(n core.Notice) {
	style, ok := t.styles[n.Kind]
	if !ok {
		style = t.source
	}

	line := style.Render(n.Message)
	if n.Source != "" {
		line = t.source.Render("["+n.Source+"]") + " " + line
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, line)
}

var _ core.Notifier = (*Terminal)(nil)
