// Package fs implements core.FileStore on the local filesystem, rooted at a
// vault directory, with optional Git versioning.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/airfetch/pkg/core"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string // Vault root
	MustExist bool   // Fail Initialize instead of creating the root
	AutoInit  bool   // git init the vault if it is not a repository (versioned stores only)
	Logger    *slog.Logger
	FileMode  os.FileMode // Defaults to 0644
	Untracked []string    // Vault-relative paths never staged by versioned stores
}

// Store implements core.FileStore.
type Store struct {
	Path   string
	config Config

	mu    sync.RWMutex
	stats opStats
}

type opStats struct {
	Created  int `json:"created"`
	Written  int `json:"written"`
	Modified int `json:"modified"`
	Folders  int `json:"folders"`
}

type handle struct {
	rel  string
	full string
}

func (h handle) Path() string { return h.rel }

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	return &Store{Path: config.Path, config: config}
}

// Initialize ensures the vault root exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// resolve maps a vault-relative slash path to an absolute path inside the root.
func (s *Store) resolve(p string) (string, error) {
	full := filepath.Join(s.Path, filepath.FromSlash(p))
	rel, err := filepath.Rel(s.Path, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, core.ErrOutsideRoot)
	}
	return full, nil
}

// Exists reports whether a file or folder is present.
func (s *Store) Exists(_ context.Context, p string) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create writes a new file. Missing parents are created.
func (s *Store) Create(_ context.Context, p, content string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.config.FileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create %s: %w", p, core.ErrExists)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	s.count(func(st *opStats) { st.Created++ })
	s.debug("file created", "path", p)
	return nil
}

// CreateFolder creates a folder and its parents. It fails with core.ErrExists
// when the folder is already there.
func (s *Store) CreateFolder(_ context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("create folder %s: %w", p, core.ErrExists)
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	s.count(func(st *opStats) { st.Folders++ })
	s.debug("folder created", "path", p)
	return nil
}

// Write replaces the file content in place, creating it if needed.
func (s *Store) Write(_ context.Context, p, content string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(full, []byte(content), s.config.FileMode); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.count(func(st *opStats) { st.Written++ })
	s.debug("file written", "path", p)
	return nil
}

// FileByPath resolves a handle to an existing regular file.
func (s *Store) FileByPath(_ context.Context, p string) (core.FileHandle, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return handle{rel: p, full: full}, nil
}

// Modify replaces the content of an existing file atomically, keeping its mode.
func (s *Store) Modify(_ context.Context, h core.FileHandle, content string) error {
	fh, ok := h.(handle)
	if !ok {
		return fmt.Errorf("handle for %s was not issued by this store", h.Path())
	}
	if err := replaceNote(fh.full, content); err != nil {
		return fmt.Errorf("failed to modify %s: %w", fh.rel, err)
	}

	s.count(func(st *opStats) { st.Modified++ })
	s.debug("file modified", "path", fh.rel)
	return nil
}

func (s *Store) count(fn func(*opStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.stats)
}

func (s *Store) debug(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}

var _ core.FileStore = (*Store)(nil)
