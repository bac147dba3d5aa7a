package fs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aretw0/airfetch/pkg/core"
)

func TestReplaceNote(t *testing.T) {
	t.Run("Replaces Body", func(t *testing.T) {
		note := filepath.Join(t.TempDir(), "Hello.md")
		if err := os.WriteFile(note, []byte("stale"), 0644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := replaceNote(note, "# Hello\n"); err != nil {
			t.Fatalf("replaceNote failed: %v", err)
		}

		got, err := os.ReadFile(note)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "# Hello\n" {
			t.Errorf("expected new body, got %q", got)
		}
	})

	t.Run("Keeps Note Mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not portable")
		}
		note := filepath.Join(t.TempDir(), "Private.md")
		if err := os.WriteFile(note, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}

		if err := replaceNote(note, "y"); err != nil {
			t.Fatalf("replaceNote failed: %v", err)
		}

		info, err := os.Stat(note)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("Leaves No Staged Copies", func(t *testing.T) {
		dir := t.TempDir()
		note := filepath.Join(dir, "note.md")
		if err := os.WriteFile(note, []byte("a"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := replaceNote(note, "b"); err != nil {
			t.Fatalf("replaceNote failed: %v", err)
		}

		matches, _ := filepath.Glob(filepath.Join(dir, TempFilePrefix+"*"))
		if len(matches) != 0 {
			t.Errorf("expected no staged files, found %v", matches)
		}
	})

	t.Run("Missing Note Is Not Created", func(t *testing.T) {
		note := filepath.Join(t.TempDir(), "Ghost.md")

		err := replaceNote(note, "boo")
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, statErr := os.Stat(note); !os.IsNotExist(statErr) {
			t.Error("replaceNote must not create missing notes")
		}
	})
}
