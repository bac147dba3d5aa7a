package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Config wires the engine to its collaborators.
// Store and Fetcher are required; everything else is optional.
type Config struct {
	Store       FileStore
	Fetcher     RecordFetcher
	Chooser     Chooser[FilterOption]
	Notifier    Notifier
	Recorder    RunRecorder
	Logger      *slog.Logger
	SettleDelay time.Duration
}

// Engine runs fetch-and-reconcile cycles for sources.
// Runs are serial: a second Fetch while one is active fails with ErrRunInProgress.
type Engine struct {
	cfg Config

	run  sync.Mutex
	mu   sync.RWMutex
	last *RunReport
	runs int
}

// NewEngine creates a new Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Fetch asks the chooser for a filter window and then syncs src with it.
// If the chooser is dismissed nothing is fetched and ErrNoSelection is returned.
// The run lock is taken before the chooser is shown.
func (e *Engine) Fetch(ctx context.Context, src Source) (RunReport, error) {
	if err := e.validate(); err != nil {
		return RunReport{}, err
	}
	if e.cfg.Chooser == nil {
		return RunReport{}, errors.New("no chooser configured to select a filter")
	}
	if !e.run.TryLock() {
		return RunReport{}, ErrRunInProgress
	}
	defer e.run.Unlock()

	filter, err := SelectFilter(ctx, e.cfg.Chooser)
	if err != nil {
		return RunReport{}, err
	}
	return e.cycle(ctx, src, filter)
}

// FetchWithFilter retrieves every record of src matching filter and mirrors
// them into the store under src.Path.
//
// Page failures and store failures are not returned: they end up in the
// report and the log. Only context cancellation and ErrRunInProgress are errors.
func (e *Engine) FetchWithFilter(ctx context.Context, src Source, filter FilterOption) (RunReport, error) {
	if err := e.validate(); err != nil {
		return RunReport{}, err
	}
	if !e.run.TryLock() {
		return RunReport{}, ErrRunInProgress
	}
	defer e.run.Unlock()
	return e.cycle(ctx, src, filter)
}

func (e *Engine) validate() error {
	if e.cfg.Store == nil || e.cfg.Fetcher == nil {
		return errors.New("engine requires a store and a fetcher")
	}
	return nil
}

// cycle runs one fetch and reconcile pass. The caller holds the run lock.
func (e *Engine) cycle(ctx context.Context, src Source, filter FilterOption) (RunReport, error) {
	report := RunReport{
		SourceID:   src.ID,
		SourceName: src.Name,
		Filter:     filter.ID,
		StartedAt:  time.Now().UTC(),
	}
	e.debug("fetch started", "source", src.Name, "filter", filter.ID)

	res := e.cfg.Fetcher.FetchRecords(ctx, src, filter, e.sourceNotifier(src))
	report.Pages = res.Pages
	report.Records = len(res.Records)
	if res.Err != nil {
		report.FetchError = res.Err.Error()
		if e.cfg.Logger != nil {
			e.cfg.Logger.Warn("fetch ended early, keeping partial result",
				"source", src.Name, "pages", res.Pages, "records", len(res.Records), "error", res.Err)
		}
	}

	e.notify(Notice{
		Kind:    NoticePlanned,
		Source:  src.Name,
		Count:   len(res.Records),
		Message: fmt.Sprintf("There are %s files needed to be updated or created.", humanize.Comma(int64(len(res.Records)))),
	})

	rec := &Reconciler{
		Store:       e.cfg.Store,
		Notifier:    e.cfg.Notifier,
		Logger:      e.cfg.Logger,
		SettleDelay: e.cfg.SettleDelay,
		Source:      src.Name,
	}
	tally, runErr := rec.Reconcile(ctx, res.Records, src.Path)
	report.Created = tally.Created
	report.Overwritten = tally.Overwritten
	report.Modified = tally.Modified
	report.Failed = tally.Failed

	if c, ok := e.cfg.Store.(Committer); ok && runErr == nil && tally.Created+tally.Overwritten+tally.Modified > 0 {
		msg := fmt.Sprintf("sync(%s): %d created, %d updated", src.Name, tally.Created, tally.Overwritten+tally.Modified)
		if err := c.Commit(ctx, src.Path, msg); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Error("failed to commit synced notes", "source", src.Name, "error", err)
		}
	}

	report.FinishedAt = time.Now().UTC()
	if e.cfg.Recorder != nil {
		// Record even cancelled runs; use a fresh context so cancellation doesn't drop the row.
		if err := e.cfg.Recorder.RecordRun(context.WithoutCancel(ctx), report); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Error("failed to record run", "source", src.Name, "error", err)
		}
	}

	e.mu.Lock()
	e.last = &report
	e.runs++
	e.mu.Unlock()

	if runErr != nil {
		return report, runErr
	}

	e.notify(Notice{Kind: NoticeDone, Source: src.Name, Message: src.Name + " fetched successfully"})
	e.debug("fetch finished", "source", src.Name, "created", report.Created, "modified", report.Modified,
		"overwritten", report.Overwritten, "failed", report.Failed)
	return report, nil
}

// LastReport returns the report of the most recent run, if any.
func (e *Engine) LastReport() (RunReport, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.last == nil {
		return RunReport{}, false
	}
	return *e.last, true
}

func (e *Engine) sourceNotifier(src Source) Notifier {
	return NotifierFunc(func(n Notice) {
		if n.Source == "" {
			n.Source = src.Name
		}
		e.notify(n)
	})
}

func (e *Engine) notify(n Notice) {
	if e.cfg.Notifier != nil {
		e.cfg.Notifier.Notify(n)
	}
}

func (e *Engine) debug(msg string, args ...any) {
	if e.cfg.Logger != nil {
		e.cfg.Logger.Debug(msg, args...)
	}
}
