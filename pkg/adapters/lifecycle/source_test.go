package lifecycle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	airlife "github.com/aretw0/airfetch/pkg/adapters/lifecycle"
	"github.com/aretw0/lifecycle"
)

func next(t *testing.T, ch <-chan lifecycle.Event) airlife.Trigger {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "source closed")
		trig, ok := e.(airlife.Trigger)
		require.True(t, ok, "unexpected event %T", e)
		return trig
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for trigger")
		return airlife.Trigger{}
	}
}

func TestTriggerSource_StartupAndInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := airlife.NewTriggerSource(airlife.Config{Interval: 20 * time.Millisecond})
	require.NoError(t, src.Start(ctx))

	assert.Equal(t, airlife.ReasonStartup, next(t, src.Events()).Reason)
	assert.Equal(t, airlife.ReasonInterval, next(t, src.Events()).Reason)

	cancel()
	for range src.Events() {
		// drain until closed
	}
}

func TestTriggerSource_ConfigChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgFile := filepath.Join(t.TempDir(), "airfetch.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("vault: .\n"), 0644))

	src := airlife.NewTriggerSource(airlife.Config{ConfigFile: cfgFile, Debounce: 20 * time.Millisecond})
	require.NoError(t, src.Start(ctx))
	assert.Equal(t, airlife.ReasonStartup, next(t, src.Events()).Reason)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfgFile), "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(cfgFile, []byte("vault: ./notes\n"), 0644))

	trig := next(t, src.Events())
	assert.Equal(t, airlife.ReasonConfig, trig.Reason)
	assert.Contains(t, trig.String(), "config@")
}
