package core

import "errors"

var (
	// ErrNotFound is returned by FileStore.FileByPath when no file exists at the path.
	ErrNotFound = errors.New("file not found")

	// ErrExists is returned by FileStore.Create when the target already exists.
	ErrExists = errors.New("file already exists")

	// ErrNoSelection is returned by a Chooser dismissed without a choice.
	ErrNoSelection = errors.New("no option selected")

	// ErrRunInProgress is returned when Fetch is called while another run is active.
	ErrRunInProgress = errors.New("a fetch is already running")

	// ErrOutsideRoot is returned by stores for paths escaping their root.
	ErrOutsideRoot = errors.New("path escapes store root")
)
