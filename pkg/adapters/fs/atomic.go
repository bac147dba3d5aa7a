package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/airfetch/pkg/core"
)

// TempFilePrefix starts the name of a note's staged replacement. The leading
// dot keeps half-written copies out of vault indexes.
const TempFilePrefix = ".airfetch-tmp-"

// replaceNote swaps the body of the existing note at full for content.
//
// The new body is staged beside the note and renamed over it, so an editor
// or indexer watching the vault sees either the old note or the new one.
// The note keeps its permission bits. A missing note is core.ErrNotFound:
// replacing never creates.
func replaceNote(full, content string) error {
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", filepath.Base(full), core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to stat note: %w", err)
	}

	staged, err := os.CreateTemp(filepath.Dir(full), TempFilePrefix+filepath.Base(full)+"-*")
	if err != nil {
		return fmt.Errorf("failed to stage note: %w", err)
	}
	defer os.Remove(staged.Name())

	if _, err := staged.WriteString(content); err != nil {
		staged.Close()
		return fmt.Errorf("failed to write staged note: %w", err)
	}
	if err := staged.Sync(); err != nil {
		staged.Close()
		return fmt.Errorf("failed to sync staged note: %w", err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("failed to close staged note: %w", err)
	}
	if err := os.Chmod(staged.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to keep note mode: %w", err)
	}
	if err := os.Rename(staged.Name(), full); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(full), err)
	}
	return nil
}
