// Package memory provides an in-memory core.FileStore, used by tests and by
// callers that want to preview a sync without touching disk.
package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/airfetch/pkg/core"
)

// Op names a store operation, as recorded in the journal.
type Op string

const (
	OpExists       Op = "exists"
	OpCreate       Op = "create"
	OpCreateFolder Op = "createFolder"
	OpWrite        Op = "write"
	OpFileByPath   Op = "fileByPath"
	OpModify       Op = "modify"
)

// Call is one journal entry.
type Call struct {
	Op   Op
	Path string
}

type handle string

func (h handle) Path() string { return string(h) }

// Store implements core.FileStore in memory.
type Store struct {
	mu      sync.RWMutex
	files   map[string]string
	folders map[string]bool
	faults  map[Call]error
	journal []Call
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		files:   make(map[string]string),
		folders: make(map[string]bool),
		faults:  make(map[Call]error),
	}
}

// Seed places a file, creating its parent folders.
func (s *Store) Seed(p, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = content
	s.addParents(p)
}

// Fail makes every subsequent op on p return err.
func (s *Store) Fail(op Op, p string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[Call{Op: op, Path: p}] = err
}

// Content returns the content at p and whether a file exists there.
func (s *Store) Content(p string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.files[p]
	return c, ok
}

// Files lists all file paths, sorted.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HasFolder reports whether folder p exists.
func (s *Store) HasFolder(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.folders[p]
}

// Journal returns the operations performed so far, in order.
func (s *Store) Journal() []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Call(nil), s.journal...)
}

// Calls returns the journal entries for op.
func (s *Store) Calls(op Op) []Call {
	var out []Call
	for _, c := range s.Journal() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Exists(_ context.Context, p string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpExists, p); err != nil {
		return false, err
	}
	_, isFile := s.files[p]
	return isFile || s.folders[p], nil
}

func (s *Store) Create(_ context.Context, p, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpCreate, p); err != nil {
		return err
	}
	if _, ok := s.files[p]; ok || s.folders[p] {
		return fmt.Errorf("create %s: %w", p, core.ErrExists)
	}
	s.files[p] = content
	s.addParents(p)
	return nil
}

func (s *Store) CreateFolder(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpCreateFolder, p); err != nil {
		return err
	}
	if s.folders[p] {
		return fmt.Errorf("create folder %s: %w", p, core.ErrExists)
	}
	s.folders[p] = true
	s.addParents(p)
	return nil
}

func (s *Store) Write(_ context.Context, p, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpWrite, p); err != nil {
		return err
	}
	s.files[p] = content
	s.addParents(p)
	return nil
}

func (s *Store) FileByPath(_ context.Context, p string) (core.FileHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpFileByPath, p); err != nil {
		return nil, err
	}
	if _, ok := s.files[p]; !ok {
		return nil, fmt.Errorf("%s: %w", p, core.ErrNotFound)
	}
	return handle(p), nil
}

func (s *Store) Modify(_ context.Context, h core.FileHandle, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := h.Path()
	if err := s.record(OpModify, p); err != nil {
		return err
	}
	if _, ok := s.files[p]; !ok {
		return fmt.Errorf("%s: %w", p, core.ErrNotFound)
	}
	s.files[p] = content
	return nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

// record must be called with mu held.
func (s *Store) record(op Op, p string) error {
	c := Call{Op: op, Path: p}
	s.journal = append(s.journal, c)
	return s.faults[c]
}

// addParents must be called with mu held.
func (s *Store) addParents(p string) {
	for dir := path.Dir(p); dir != "." && dir != "/" && dir != ""; dir = path.Dir(dir) {
		s.folders[dir] = true
		if !strings.Contains(dir, "/") {
			break
		}
	}
}

var _ core.FileStore = (*Store)(nil)
