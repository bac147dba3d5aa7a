package airfetch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/airfetch/internal/platform"
	"github.com/aretw0/airfetch/pkg/core"
)

// --- Types ---

// App is a wired engine together with the resources it owns.
type App = platform.App

// Config is the parsed airfetch configuration file.
type Config = platform.Config

// SourceConfig is one configured source.
type SourceConfig = platform.SourceConfig

// --- Configuration ---

// Option defines a functional option for configuring airfetch.
type Option = platform.Option

// WithLogger sets the logger for the engine and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom note store.
func WithStore(store core.FileStore) Option {
	return platform.WithStore(store)
}

// WithFetcher replaces the Airtable client.
func WithFetcher(f core.RecordFetcher) Option {
	return platform.WithFetcher(f)
}

// WithChooser sets the surface used to pick a filter window.
func WithChooser(c core.Chooser[core.FilterOption]) Option {
	return platform.WithChooser(c)
}

// WithNotifier sets where user notices go.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithRecorder replaces the run ledger.
func WithRecorder(r core.RunRecorder) Option {
	return platform.WithRecorder(r)
}

// WithHTTPClient sets the base client for Airtable requests.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithAPIRoot points the Airtable client at another endpoint.
func WithAPIRoot(root string) Option {
	return platform.WithAPIRoot(root)
}

// WithTimeout bounds each Airtable request.
func WithTimeout(d time.Duration) Option {
	return platform.WithTimeout(d)
}

// WithSettleDelay sets the pause after each modify.
func WithSettleDelay(d time.Duration) Option {
	return platform.WithSettleDelay(d)
}

// WithHistory sets the run ledger path relative to the vault ("" disables it).
func WithHistory(path string) Option {
	return platform.WithHistory(path)
}

// WithVersioning commits synced folders to Git after each run.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithAutoInit runs git init on versioned vaults that are not repositories yet.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New wires an engine for the vault at path.
func New(path string, opts ...Option) (*App, error) {
	return platform.New(path, opts...)
}

// Init prepares the vault and returns its store.
func Init(path string, opts ...Option) (core.FileStore, error) {
	return platform.Init(path, opts...)
}

// LoadConfig reads airfetch.yaml (see platform.LoadConfig for the search order).
func LoadConfig(explicit, startDir string) (*Config, error) {
	return platform.LoadConfig(explicit, startDir)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot looks upwards for a directory with an airfetch config.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
