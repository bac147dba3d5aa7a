// Package lifecycle bridges watch-mode triggers to lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Trigger reasons.
const (
	ReasonStartup  = "startup"
	ReasonInterval = "interval"
	ReasonConfig   = "config"
)

// Trigger asks the watcher to run a fetch cycle.
type Trigger struct {
	Reason string
	At     time.Time
}

// String implements lifecycle.Event.
func (t Trigger) String() string {
	return fmt.Sprintf("%s@%s", t.Reason, t.At.Format(time.RFC3339))
}

// Config controls when triggers fire.
type Config struct {
	Interval   time.Duration // 0 disables the ticker
	ConfigFile string        // Changes to this file fire a trigger; empty disables
	Debounce   time.Duration // Defaults to 250ms
	Logger     *slog.Logger
}

type triggerSource struct {
	cfg Config
	out chan lifecycle.Event
}

// NewTriggerSource creates a lifecycle.Source that emits one startup
// trigger, then one per interval tick and per config file change.
func NewTriggerSource(cfg Config) lifecycle.Source {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	return &triggerSource{
		cfg: cfg,
		out: make(chan lifecycle.Event),
	}
}

func (s *triggerSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *triggerSource) Start(ctx context.Context) error {
	var watcher *fsnotify.Watcher
	if s.cfg.ConfigFile != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		// Editors replace files on save, so watch the directory.
		if err := w.Add(filepath.Dir(s.cfg.ConfigFile)); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to watch config: %w", err)
		}
		watcher = w
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		if watcher != nil {
			defer watcher.Close()
		}
		return s.run(ctx, watcher)
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.cfg.Logger != nil {
			s.cfg.Logger.Error("trigger source failed", "error", err)
		}
	}))
	return nil
}

func (s *triggerSource) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	if !s.emit(ctx, ReasonStartup) {
		return nil
	}

	var tick <-chan time.Time
	if s.cfg.Interval > 0 {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if watcher != nil {
		events, errs = watcher.Events, watcher.Errors
	}

	// Fires once the config file has been quiet for Debounce.
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			if !s.emit(ctx, ReasonInterval) {
				return nil
			}

		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.cfg.ConfigFile) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce.Reset(s.cfg.Debounce)
			}

		case <-debounce.C:
			if !s.emit(ctx, ReasonConfig) {
				return nil
			}

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if s.cfg.Logger != nil {
				s.cfg.Logger.Error("fsnotify error", "error", err)
			}
		}
	}
}

func (s *triggerSource) emit(ctx context.Context, reason string) bool {
	select {
	case s.out <- Trigger{Reason: reason, At: time.Now()}:
		return true
	case <-ctx.Done():
		return false
	}
}
