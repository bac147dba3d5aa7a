// Package notify implements core.Notifier for logs and terminals.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/airfetch/pkg/core"
)

// Log writes notices to a structured logger.
type Log struct {
	Logger *slog.Logger
}

// NewLog creates a logger-backed notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{Logger: logger}
}

// Notify implements core.Notifier.
func (l *Log) Notify(n core.Notice) {
	if l.Logger == nil {
		return
	}
	level := slog.LevelInfo
	switch n.Kind {
	case core.NoticeFailure:
		level = slog.LevelWarn
	case core.NoticeProgress:
		level = slog.LevelDebug
	}
	l.Logger.Log(context.Background(), level, n.Message,
		"kind", string(n.Kind), "source", n.Source, "count", n.Count)
}

// Multi fans a notice out to several notifiers, in order.
type Multi []core.Notifier

// Notify implements core.Notifier.
func (m Multi) Notify(n core.Notice) {
	for _, x := range m {
		if x != nil {
			x.Notify(n)
		}
	}
}

// Collector keeps every notice in memory. Useful for --state and tests.
type Collector struct {
	mu      sync.Mutex
	notices []core.Notice
}

// Notify implements core.Notifier.
func (c *Collector) Notify(n core.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of everything collected so far.
func (c *Collector) Notices() []core.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

var (
	_ core.Notifier = (*Log)(nil)
	_ core.Notifier = Multi(nil)
	_ core.Notifier = (*Collector)(nil)
)
