package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/airfetch/pkg/adapters/fs"
	"github.com/aretw0/airfetch/pkg/core"
)

// setupStore creates a store rooted at a fresh vault directory.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.Store, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")
	cfg := fs.Config{Path: vaultPath}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := fs.NewStore(cfg)
	if !cfg.MustExist {
		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
	}
	return store, vaultPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupStore(t)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		store, _ := setupStore(t, func(c *fs.Config) { c.MustExist = true })
		if err := store.Initialize(context.Background()); err == nil {
			t.Error("expected error for missing vault, got nil")
		}
	})
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes New File With Parents", func(t *testing.T) {
		store, root := setupStore(t)
		if err := store.Create(ctx, "Notes/Daily/Hello.md", "# Hello"); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if got := readFile(t, filepath.Join(root, "Notes", "Daily", "Hello.md")); got != "# Hello" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("Refuses Existing File", func(t *testing.T) {
		store, _ := setupStore(t)
		if err := store.Create(ctx, "a.md", "one"); err != nil {
			t.Fatal(err)
		}
		err := store.Create(ctx, "a.md", "two")
		if !errors.Is(err, core.ErrExists) {
			t.Errorf("expected ErrExists, got %v", err)
		}
	})

	t.Run("Rejects Paths Outside Root", func(t *testing.T) {
		store, _ := setupStore(t)
		err := store.Create(ctx, "../escape.md", "x")
		if !errors.Is(err, core.ErrOutsideRoot) {
			t.Errorf("expected ErrOutsideRoot, got %v", err)
		}
	})
}

func TestStore_CreateFolder(t *testing.T) {
	ctx := context.Background()
	store, root := setupStore(t)

	if err := store.CreateFolder(ctx, "Notes/Daily"); err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if info, err := os.Stat(filepath.Join(root, "Notes", "Daily")); err != nil || !info.IsDir() {
		t.Fatalf("expected folder on disk, err=%v", err)
	}

	if err := store.CreateFolder(ctx, "Notes/Daily"); !errors.Is(err, core.ErrExists) {
		t.Errorf("expected ErrExists on second create, got %v", err)
	}
}

func TestStore_Exists(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	ok, err := store.Exists(ctx, "missing.md")
	if err != nil || ok {
		t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
	}

	if err := store.Create(ctx, "here.md", ""); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists(ctx, "here.md")
	if err != nil || !ok {
		t.Fatalf("expected existing file, got ok=%v err=%v", ok, err)
	}
}

func TestStore_FileByPathAndModify(t *testing.T) {
	ctx := context.Background()
	store, root := setupStore(t)

	t.Run("Missing File", func(t *testing.T) {
		_, err := store.FileByPath(ctx, "nope.md")
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Directory Is Not A File", func(t *testing.T) {
		if err := store.CreateFolder(ctx, "dir"); err != nil {
			t.Fatal(err)
		}
		if _, err := store.FileByPath(ctx, "dir"); err == nil {
			t.Error("expected error for directory handle")
		}
	})

	t.Run("Replaces Content", func(t *testing.T) {
		if err := store.Create(ctx, "Notes/Hello.md", "old"); err != nil {
			t.Fatal(err)
		}
		h, err := store.FileByPath(ctx, "Notes/Hello.md")
		if err != nil {
			t.Fatalf("FileByPath failed: %v", err)
		}
		if h.Path() != "Notes/Hello.md" {
			t.Errorf("unexpected handle path %q", h.Path())
		}
		if err := store.Modify(ctx, h, "# Hello"); err != nil {
			t.Fatalf("Modify failed: %v", err)
		}
		if got := readFile(t, filepath.Join(root, "Notes", "Hello.md")); got != "# Hello" {
			t.Errorf("unexpected content %q", got)
		}
	})
}

func TestStore_Write(t *testing.T) {
	ctx := context.Background()
	store, root := setupStore(t)

	if err := store.Write(ctx, ".config/Settings.json", `{"a":1}`); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := store.Write(ctx, ".config/Settings.json", `{"a":2}`); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if got := readFile(t, filepath.Join(root, ".config", "Settings.json")); got != `{"a":2}` {
		t.Errorf("unexpected content %q", got)
	}
}

func TestStore_State(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	_ = store.CreateFolder(ctx, "n")
	_ = store.Create(ctx, "n/a.md", "a")
	_ = store.Write(ctx, "n/b.md", "b")

	st, ok := store.State().(fs.StoreState)
	if !ok {
		t.Fatalf("unexpected state type %T", store.State())
	}
	if st.Ops.Created != 1 || st.Ops.Written != 1 || st.Ops.Folders != 1 {
		t.Errorf("unexpected op counts %+v", st.Ops)
	}
	if st.Versioned {
		t.Error("plain store reported as versioned")
	}
}

// A full reconcile against the real filesystem.
func TestStore_Reconcile(t *testing.T) {
	ctx := context.Background()
	store, root := setupStore(t)

	if err := store.Create(ctx, "Notes/Existing.md", "stale"); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "Notes/.config/Settings.json", "{}"); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "Notes/.env", "KEY=0"); err != nil {
		t.Fatal(err)
	}

	json, env := "json", "env"
	records := []core.Record{
		{ID: "rec1", Fields: core.Fields{Title: "Hello", MD: "# Hello"}},
		{ID: "rec2", Fields: core.Fields{Title: "Existing", MD: "fresh"}},
		{ID: "rec3", Fields: core.Fields{Title: "Settings", MD: `{"x":1}`, SubFolder: ".config", Extension: &json}},
		{ID: "rec4", Fields: core.Fields{Title: "a/b: c", MD: "odd", SubFolder: "Daily"}},
		{ID: "rec5", Fields: core.Fields{MD: "KEY=1", Extension: &env}},
	}

	r := &core.Reconciler{Store: store}
	tally, err := r.Reconcile(ctx, records, "Notes")
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	want := core.Tally{Created: 2, Overwritten: 1, Modified: 2}
	if tally != want {
		t.Errorf("expected %+v, got %+v", want, tally)
	}

	checks := map[string]string{
		"Notes/Hello.md":              "# Hello",
		"Notes/Existing.md":           "fresh",
		"Notes/.config/Settings.json": `{"x":1}`,
		"Notes/Daily/a-b- c.md":       "odd",
		"Notes/.env":                  "KEY=1",
	}
	for rel, content := range checks {
		if got := readFile(t, filepath.Join(root, filepath.FromSlash(rel))); got != content {
			t.Errorf("%s: expected %q, got %q", rel, content, got)
		}
	}
}
