package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/airfetch/pkg/core"
)

// options holds the internal configuration for the airfetch engine.
type options struct {
	logger      *slog.Logger
	store       core.FileStore
	fetcher     core.RecordFetcher
	chooser     core.Chooser[core.FilterOption]
	notifier    core.Notifier
	recorder    core.RunRecorder
	httpClient  *http.Client
	apiRoot     string
	timeout     time.Duration
	settleDelay time.Duration
	history     string
	versioning  bool
	autoInit    bool
	mustExist   bool
	forceTemp   bool
	devSafety   bool
}

// Option defines a functional option for configuring airfetch.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		settleDelay: core.DefaultSettleDelay,
		history:     DefaultHistoryPath,
		devSafety:   true,
	}
}

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a custom note store (e.g. memory).
// If provided, the default filesystem adapter will be skipped.
func WithStore(store core.FileStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithFetcher replaces the Airtable client.
func WithFetcher(f core.RecordFetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithChooser sets the surface used to pick a filter window.
func WithChooser(c core.Chooser[core.FilterOption]) Option {
	return func(o *options) {
		o.chooser = c
	}
}

// WithNotifier sets where user notices go. Defaults to the logger.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithRecorder replaces the SQLite run ledger.
func WithRecorder(r core.RunRecorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithHTTPClient sets the base client for Airtable requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithAPIRoot points the Airtable client somewhere else (tests, proxies).
func WithAPIRoot(root string) Option {
	return func(o *options) {
		o.apiRoot = root
	}
}

// WithTimeout bounds each Airtable request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithSettleDelay sets the pause after each modify.
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) {
		o.settleDelay = d
	}
}

// WithHistory sets the run ledger path, relative to the vault.
// An empty path disables the ledger.
func WithHistory(path string) Option {
	return func(o *options) {
		o.history = path
	}
}

// WithVersioning commits synced folders to Git after each run.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = enabled
	}
}

// WithAutoInit runs git init on versioned vaults that are not repositories yet.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.autoInit = auto
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), the vault is re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
