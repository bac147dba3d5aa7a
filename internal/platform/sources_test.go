package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/airfetch/pkg/adapters/secret"
)

var testSources = []SourceConfig{
	{Name: "Reading", ID: "id-reading", Path: "Reading", URL: "https://airtable.com/appA/tblA", APIKey: "env:K", Export: true},
	{Name: "Recipes", ID: "id-recipes", Path: "Kitchen", URL: "https://airtable.com/appB/tblB"},
	{Name: "Research/Papers", ID: "id-papers", Path: "Papers", URL: "https://airtable.com/appC/tblC", Export: true},
}

func TestSelectSources(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  bool
	}{
		{name: "All", patterns: nil, want: []string{"Reading", "Recipes", "Research/Papers"}},
		{name: "By Name Glob", patterns: []string{"Re*"}, want: []string{"Reading", "Recipes"}},
		{name: "Double Star", patterns: []string{"Research/**"}, want: []string{"Research/Papers"}},
		{name: "By ID", patterns: []string{"id-recipes"}, want: []string{"Recipes"}},
		{name: "Several Patterns Keep Order", patterns: []string{"Recipes", "Reading"}, want: []string{"Reading", "Recipes"}},
		{name: "No Match", patterns: []string{"zzz"}, wantErr: true},
		{name: "Bad Pattern", patterns: []string{"[a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectSources(testSources, tt.patterns)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, s := range got {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	t.Run("Nothing Configured", func(t *testing.T) {
		_, err := SelectSources(nil, nil)
		assert.ErrorIs(t, err, ErrNoSources)
	})
}

func TestExportSources(t *testing.T) {
	out, err := ExportSources(testSources)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "name: Reading")
	assert.Contains(t, text, "name: Research/Papers")
	assert.NotContains(t, text, "Recipes")
	assert.NotContains(t, text, "id-")
	assert.NotContains(t, text, "env:K")
}

func TestResolveSource(t *testing.T) {
	t.Setenv("K", "keyFromEnv")
	src, err := ResolveSource(context.Background(), secret.NewResolver(), testSources[0])
	require.NoError(t, err)
	assert.Equal(t, "keyFromEnv", src.APIKey)
	assert.Equal(t, "id-reading", src.ID)
	assert.True(t, src.Export)

	_, err = ResolveSource(context.Background(), secret.NewResolver(), SourceConfig{Name: "X", APIKey: "env:AIRFETCH_UNSET_KEY"})
	assert.ErrorContains(t, err, "source X")
}
