package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/airfetch/pkg/adapters/secret"
	"github.com/aretw0/airfetch/pkg/core"
)

// ErrNoSources is returned when a command needs sources and none are configured.
var ErrNoSources = errors.New("no sources configured")

// SelectSources returns the sources whose name or ID matches any of the glob
// patterns, in config order. No patterns selects every source.
func SelectSources(sources []SourceConfig, patterns []string) ([]SourceConfig, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	if len(patterns) == 0 {
		return sources, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid source pattern %q", p)
		}
	}

	var out []SourceConfig
	for _, s := range sources {
		for _, p := range patterns {
			if matchSource(p, s) {
				out = append(out, s)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no source matches %v", patterns)
	}
	return out, nil
}

func matchSource(pattern string, s SourceConfig) bool {
	if ok, _ := doublestar.Match(pattern, s.Name); ok {
		return true
	}
	ok, _ := doublestar.Match(pattern, s.ID)
	return ok
}

// ResolveSource resolves the key reference of s.
func ResolveSource(ctx context.Context, r *secret.Resolver, s SourceConfig) (core.Source, error) {
	key, err := r.Resolve(ctx, s.APIKey)
	if err != nil {
		return core.Source{}, fmt.Errorf("source %s: %w", s.Name, err)
	}
	return s.Source(key), nil
}

type exportedSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// ExportSources renders the sources flagged for export as a shareable YAML
// sources list. IDs and keys are left out.
func ExportSources(sources []SourceConfig) ([]byte, error) {
	doc := struct {
		Sources []exportedSource `yaml:"sources"`
	}{Sources: []exportedSource{}}

	for _, s := range sources {
		if !s.Export {
			continue
		}
		doc.Sources = append(doc.Sources, exportedSource{Name: s.Name, URL: s.URL, Path: s.Path})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sources: %w", err)
	}
	return out, nil
}
