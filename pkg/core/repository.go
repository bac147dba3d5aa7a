package core

import "context"

// FileStore is the hierarchical store notes are written to.
// Paths are vault relative and use "/" as separator.
type FileStore interface {
	// Exists reports whether a file or folder is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Create writes a new file. It fails if the file already exists.
	Create(ctx context.Context, path, content string) error

	// CreateFolder creates a folder and any missing parents.
	CreateFolder(ctx context.Context, path string) error

	// Write replaces the raw bytes at path, bypassing Modify semantics.
	Write(ctx context.Context, path, content string) error

	// FileByPath resolves a handle for an existing file.
	// It returns ErrNotFound when nothing is there.
	FileByPath(ctx context.Context, path string) (FileHandle, error)

	// Modify replaces the content of the file behind h.
	Modify(ctx context.Context, h FileHandle, content string) error
}

// FileHandle references a file resolved by a FileStore.
type FileHandle interface {
	Path() string
}

// Committer is implemented by stores that version their content (e.g. Git).
type Committer interface {
	Commit(ctx context.Context, scope, msg string) error
}

// Notifier surfaces notices to the user. It must not block.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Chooser presents items and waits for the user to pick one.
// It returns ErrNoSelection when the surface is dismissed.
type Chooser[T any] interface {
	Choose(ctx context.Context, items []T, label func(T) string) (T, error)
}

// FetchResult is what a RecordFetcher managed to retrieve.
// Err holds the failure that ended pagination early, if any.
type FetchResult struct {
	IDs     RemoteIDs
	Records []Record
	Pages   int
	Err     error
}

// RecordFetcher retrieves every record of a source that passes the filter.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, src Source, filter FilterOption, notifier Notifier) FetchResult
}

// RunRecorder persists run reports.
type RunRecorder interface {
	RecordRun(ctx context.Context, report RunReport) error
}
