package platform

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/aretw0/airfetch/pkg/adapters/fs"
	"github.com/aretw0/airfetch/pkg/adapters/history"
	"github.com/aretw0/airfetch/pkg/adapters/notify"
	"github.com/aretw0/airfetch/pkg/airtable"
	"github.com/aretw0/airfetch/pkg/core"
)

// App is a wired engine together with the resources it owns.
type App struct {
	Engine  *core.Engine
	Store   core.FileStore
	History *history.Store // nil when the ledger is disabled or replaced
	Vault   string
}

// Close releases the ledger.
func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

// New wires an engine for the vault at path.
//
//	app, err := platform.New("./vault", platform.WithVersioning(true))
func New(path string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ctx := context.Background()
	vault := resolvePath(path, o)

	store, err := initStore(ctx, vault, o)
	if err != nil {
		return nil, err
	}
	app := &App{Store: store, Vault: vault}

	recorder := o.recorder
	if recorder == nil && o.history != "" {
		h, err := history.Open(ctx, historyFile(vault, o))
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		app.History = h
		recorder = h
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewLog(o.logger)
	}

	app.Engine = core.NewEngine(core.Config{
		Store:       store,
		Fetcher:     newFetcher(o),
		Chooser:     o.chooser,
		Notifier:    notifier,
		Recorder:    recorder,
		Logger:      o.logger,
		SettleDelay: o.settleDelay,
	})
	return app, nil
}

// Init prepares the vault and returns its store without wiring an engine.
func Init(path string, opts ...Option) (core.FileStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(context.Background(), resolvePath(path, o), o)
}

// HistoryPath returns the ledger file New opens for the vault at path, or ""
// when history is disabled. It applies the same dev-run re-rooting as New.
func HistoryPath(path string, opts ...Option) string {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.history == "" {
		return ""
	}
	return historyFile(resolvePath(path, o), o)
}

func historyFile(vault string, o *options) string {
	return filepath.Join(vault, filepath.FromSlash(o.history))
}

func resolvePath(path string, o *options) string {
	useTemp := o.forceTemp || (IsDevRun() && o.devSafety)
	resolved := ResolveVaultPath(path, useTemp)
	if useTemp && o.logger != nil {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

func initStore(ctx context.Context, vault string, o *options) (core.FileStore, error) {
	if o.store != nil {
		return o.store, nil
	}

	cfg := fs.Config{
		Path:      vault,
		MustExist: o.mustExist,
		AutoInit:  o.autoInit,
		Logger:    o.logger,
		Untracked: []string{SystemDir},
	}

	if o.versioning {
		vs := fs.NewVersionedStore(cfg)
		if err := vs.Initialize(ctx); err != nil {
			return nil, err
		}
		return vs, nil
	}

	s := fs.NewStore(cfg)
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newFetcher(o *options) core.RecordFetcher {
	if o.fetcher != nil {
		return o.fetcher
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	} else if o.timeout > 0 {
		c := *hc
		c.Timeout = o.timeout
		hc = &c
	}

	opts := []airtable.Option{airtable.WithHTTPClient(hc), airtable.WithLogger(o.logger)}
	if o.apiRoot != "" {
		opts = append(opts, airtable.WithAPIRoot(o.apiRoot))
	}
	return airtable.NewClient(opts...)
}
