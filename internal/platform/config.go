package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/aretw0/airfetch/pkg/airtable"
	"github.com/aretw0/airfetch/pkg/core"
)

// DefaultHistoryPath is the run ledger location relative to the vault.
const DefaultHistoryPath = SystemDir + "/history.db"

// EnvPrefix prefixes environment overrides (AIRFETCH_VAULT, ...).
const EnvPrefix = "AIRFETCH"

// SourceConfig is one entry of the sources list.
type SourceConfig struct {
	Name   string `mapstructure:"name" yaml:"name" json:"name"`
	URL    string `mapstructure:"url" yaml:"url" json:"url"`
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty" json:"-"`
	Path   string `mapstructure:"path" yaml:"path" json:"path"`
	ID     string `mapstructure:"id" yaml:"id,omitempty" json:"id"`
	Export bool   `mapstructure:"export" yaml:"export,omitempty" json:"export"`
}

// Source converts the entry to the domain type with the given resolved key.
func (s SourceConfig) Source(apiKey string) core.Source {
	return core.Source{
		Name:   s.Name,
		URL:    s.URL,
		APIKey: apiKey,
		Path:   s.Path,
		ID:     s.ID,
		Export: s.Export,
	}
}

// Config is the parsed configuration file.
type Config struct {
	Vault       string         `mapstructure:"vault"`
	Versioning  bool           `mapstructure:"versioning"`
	AutoInit    bool           `mapstructure:"auto_init"`
	History     string         `mapstructure:"history"`
	SettleDelay time.Duration  `mapstructure:"settle_delay"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	APIRoot     string         `mapstructure:"api_root"`
	Sources     []SourceConfig `mapstructure:"sources"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// LoadConfig reads the configuration. explicit, when set, is the file to
// read; otherwise the file is searched from startDir upwards and then in the
// user config directory. A missing file is not an error.
//
// Sources without an ID get one, and the file is rewritten once to keep it.
func LoadConfig(explicit, startDir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("vault", ".")
	v.SetDefault("versioning", false)
	v.SetDefault("auto_init", true)
	v.SetDefault("history", DefaultHistoryPath)
	v.SetDefault("settle_delay", core.DefaultSettleDelay)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("api_root", airtable.DefaultAPIRoot)

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(ConfigName)
		if root, err := FindRoot(startDir); err == nil {
			v.AddConfigPath(root)
		}
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	// Relative vault paths are relative to the config file.
	if cfg.File != "" && !filepath.IsAbs(cfg.Vault) {
		cfg.Vault = filepath.Join(filepath.Dir(cfg.File), cfg.Vault)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.assignIDs() && cfg.File != "" {
		if err := cfg.writeSources(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source #%d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// assignIDs gives every source without one a fresh identifier.
func (c *Config) assignIDs() bool {
	changed := false
	for i := range c.Sources {
		if c.Sources[i].ID == "" {
			c.Sources[i].ID = uuid.NewString()
			changed = true
		}
	}
	return changed
}

// writeSources rewrites the sources list of the config file, leaving the
// other keys as the file had them (defaults and env overrides are not added).
func (c *Config) writeSources() error {
	raw := viper.New()
	raw.SetConfigFile(c.File)
	if err := raw.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to re-read config: %w", err)
	}

	list := make([]map[string]any, len(c.Sources))
	for i, s := range c.Sources {
		entry := map[string]any{
			"name": s.Name,
			"url":  s.URL,
			"path": s.Path,
			"id":   s.ID,
		}
		if s.APIKey != "" {
			entry["api_key"] = s.APIKey
		}
		if s.Export {
			entry["export"] = true
		}
		list[i] = entry
	}
	raw.Set("sources", list)

	if err := raw.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// VaultOptions maps the file settings to engine options.
func (c *Config) VaultOptions() []Option {
	return []Option{
		WithVersioning(c.Versioning),
		WithAutoInit(c.AutoInit),
		WithHistory(c.History),
		WithSettleDelay(c.SettleDelay),
		WithTimeout(c.Timeout),
		WithAPIRoot(c.APIRoot),
	}
}
