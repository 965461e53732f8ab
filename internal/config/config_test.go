package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 10*time.Minute, cfg.Lists.RefreshInterval)
	require.Equal(t, []string{unsupportedList}, cfg.Lists.UnsupportedURLs)
	require.Contains(t, cfg.Lists.DefaultURLs, uniswapDefaultList)
	require.Equal(t, []string{uniswapDefaultList}, cfg.Lists.DefaultActiveURLs)
	require.Equal(t, "min_bump", cfg.Lists.AutoAccept)
	require.Equal(t, 3, cfg.RPC.RetryAttempts)
	require.Equal(t, time.Second, cfg.RPC.RetryDelay)
	require.Equal(t, ":8080", cfg.API.Addr)
	require.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SWAPSYNC_LISTS_REFRESH_INTERVAL", "90s")
	t.Setenv("SWAPSYNC_LOGGING_LEVEL", "debug")
	t.Setenv("SWAPSYNC_STORAGE_PATH", "/var/lib/swapsync")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 90*time.Second, cfg.Lists.RefreshInterval)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "/var/lib/swapsync", cfg.Storage.Path)
}
