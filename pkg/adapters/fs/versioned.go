package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/airfetch/pkg/core"
	"github.com/aretw0/airfetch/pkg/git"
)

// VersionedStore is a Store whose vault is a Git repository. After each run
// the engine asks it to commit the folder it synced.
type VersionedStore struct {
	*Store
	git *git.Client
}

// NewVersionedStore creates a Git-backed store.
func NewVersionedStore(config Config) *VersionedStore {
	s := NewStore(config)
	return &VersionedStore{
		Store: s,
		git:   git.NewClient(config.Path, config.Logger),
	}
}

// Initialize ensures the vault exists and is a repository.
func (v *VersionedStore) Initialize(ctx context.Context) error {
	if err := v.Store.Initialize(ctx); err != nil {
		return err
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if v.git.IsRepo() {
		return nil
	}
	if !v.config.AutoInit {
		return fmt.Errorf("path is not a git repository: %s", v.Path)
	}
	if err := v.git.Init(ctx); err != nil {
		return fmt.Errorf("failed to git init: %w", err)
	}
	return nil
}

// Commit stages scope (a vault-relative folder, "" for the whole vault) and
// commits it. Config.Untracked paths are left out. A clean scope is not an error.
func (v *VersionedStore) Commit(ctx context.Context, scope, msg string) error {
	if scope == "" {
		scope = "."
	}
	if _, err := v.resolve(scope); err != nil {
		return err
	}

	unlock, err := v.git.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	pathspec := v.pathspec(scope)
	status, err := v.git.Status(ctx, pathspec...)
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	if status == "" {
		v.debug("nothing to commit", "scope", scope)
		return nil
	}

	if err := v.git.Add(ctx, pathspec...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := v.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	v.debug("committed", "scope", scope, "message", msg)
	return nil
}

func (v *VersionedStore) pathspec(scope string) []string {
	paths := []string{scope}
	for _, p := range v.config.Untracked {
		paths = append(paths, ":(exclude)"+filepath.ToSlash(p))
	}
	return paths
}

// ComponentType implements introspection.Component.
func (v *VersionedStore) ComponentType() string {
	return "fs+git"
}

var _ core.Committer = (*VersionedStore)(nil)
