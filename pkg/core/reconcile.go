package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// BatchSize is how many records are reconciled between progress notices.
const BatchSize = 10

// DefaultSettleDelay gives the store's metadata index time to catch up after a modify.
const DefaultSettleDelay = 100 * time.Millisecond

// Outcome is the branch taken for a single record.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeOverwritten Outcome = "overwritten"
	OutcomeModified    Outcome = "modified"
	OutcomeFailed      Outcome = "failed"
)

// Tally counts reconcile outcomes.
type Tally struct {
	Created     int
	Overwritten int
	Modified    int
	Failed      int
}

func (t *Tally) add(o Outcome) {
	switch o {
	case OutcomeCreated:
		t.Created++
	case OutcomeOverwritten:
		t.Overwritten++
	case OutcomeModified:
		t.Modified++
	case OutcomeFailed:
		t.Failed++
	}
}

// Reconciler mirrors records into a FileStore.
type Reconciler struct {
	Store       FileStore
	Notifier    Notifier
	Logger      *slog.Logger
	SettleDelay time.Duration
	Source      string
}

// Reconcile walks records in batches of BatchSize and applies the
// create / overwrite / modify policy to each, one at a time.
//
// Workflow per record:
//  1. Ensure root[/SubFolder] exists.
//  2. Derive root[/SubFolder]/<sanitized title>.<ext>.
//  3. Missing -> Create. Present and hidden -> raw Write. Present -> Modify.
//
// Store failures never abort the loop. The returned error is only the
// context's, when it is cancelled between records.
func (r *Reconciler) Reconcile(ctx context.Context, records []Record, root string) (Tally, error) {
	var tally Tally
	pending := records

	for len(pending) > 0 {
		n := min(BatchSize, len(pending))
		for _, rec := range pending[:n] {
			if err := ctx.Err(); err != nil {
				return tally, err
			}
			tally.add(r.reconcileOne(ctx, rec, root))
		}
		pending = pending[n:]

		if len(pending) > 0 {
			r.notify(Notice{
				Kind:    NoticeProgress,
				Count:   len(pending),
				Message: fmt.Sprintf("There are %s files needed to be processed.", humanize.Comma(int64(len(pending)))),
			})
		}
	}

	r.notify(Notice{Kind: NoticeComplete, Count: len(records), Message: "All Finished."})
	return tally, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, rec Record, root string) Outcome {
	folder := FolderPath(root, rec.Fields)
	if err := r.ensureFolder(ctx, folder); err != nil {
		r.logError("failed to ensure folder", err, "record", rec.ID, "folder", folder)
		return OutcomeFailed
	}

	notePath := NotePath(root, rec.Fields)
	content := rec.Fields.MD

	exists, err := r.Store.Exists(ctx, notePath)
	if err != nil {
		r.logError("failed to stat note", err, "record", rec.ID, "path", notePath)
		return OutcomeFailed
	}

	switch {
	case !exists:
		if err := r.Store.Create(ctx, notePath, content); err != nil {
			r.logError("failed to create note", err, "record", rec.ID, "path", notePath)
			return OutcomeFailed
		}
		r.debug("note created", "path", notePath)
		return OutcomeCreated

	case IsDotPath(notePath):
		if err := r.Store.Write(ctx, notePath, content); err != nil {
			r.notify(Notice{Kind: NoticeFailure, Message: fmt.Sprintf("Failed to write file: %v", err)})
			r.logError("failed to write hidden file", err, "record", rec.ID, "path", notePath)
			// Counted as an overwrite attempt either way.
		} else {
			r.debug("hidden file overwritten", "path", notePath)
		}
		return OutcomeOverwritten

	default:
		h, err := r.Store.FileByPath(ctx, notePath)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.debug("note vanished before modify", "path", notePath)
			} else {
				r.logError("failed to resolve note", err, "record", rec.ID, "path", notePath)
			}
			return OutcomeFailed
		}
		if err := r.Store.Modify(ctx, h, content); err != nil {
			r.logError("failed to modify note", err, "record", rec.ID, "path", notePath)
			return OutcomeFailed
		}
		r.debug("note modified", "path", notePath)
		r.settle(ctx)
		return OutcomeModified
	}
}

// ensureFolder creates folder only when it is absent; stores reject
// creating a folder that already exists.
func (r *Reconciler) ensureFolder(ctx context.Context, folder string) error {
	exists, err := r.Store.Exists(ctx, folder)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return r.Store.CreateFolder(ctx, folder)
}

func (r *Reconciler) settle(ctx context.Context) {
	if r.SettleDelay <= 0 {
		return
	}
	t := time.NewTimer(r.SettleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (r *Reconciler) notify(n Notice) {
	if r.Notifier == nil {
		return
	}
	if n.Source == "" {
		n.Source = r.Source
	}
	r.Notifier.Notify(n)
}

func (r *Reconciler) debug(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Debug(msg, args...)
	}
}

func (r *Reconciler) logError(msg string, err error, args ...any) {
	if r.Logger != nil {
		r.Logger.Error(msg, append(args, "error", err)...)
	}
}
