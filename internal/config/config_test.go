package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ADPULSE_DATA_FILE", "")
	t.Setenv("ADPULSE_LOG_LEVEL", "")
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)
	assert.False(t, Exists())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.General.DefaultCountry = "malaysia"
	cfg.General.Horizon = 12
	cfg.Forecast.CPAFloor = 12.5
	cfg.Appearance.Theme = "tokyo-night"
	cfg.TUI.AutoRefresh = false
	require.NoError(t, Save(cfg))

	assert.True(t, Exists())
	assert.Equal(t, filepath.Join(dir, "adpulse", "config.toml"), Path())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, model.Malaysia, got.General.Country())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o750))
	require.NoError(t, os.WriteFile(Path(), []byte("[general]\nhorizon = 3\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.General.Horizon)
	assert.Equal(t, DefaultConfig().Forecast, cfg.Forecast)
	assert.Equal(t, DefaultConfig().Daemon.Addr, cfg.Daemon.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(Dir(), 0o750))

	require.NoError(t, os.WriteFile(Path(), []byte("[general]\nhorizon = -2\n"), 0o600))
	_, err := Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(Path(), []byte("[general]\ndefault_country = \"atlantis\"\n"), 0o600))
	_, err = Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(Path(), []byte("not toml ["), 0o600))
	_, err = Load()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ADPULSE_DATA_FILE", "/tmp/markets.toml")
	t.Setenv("ADPULSE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/markets.toml", cfg.General.DataFile)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDefaultPolicyMatchesForecast(t *testing.T) {
	got := DefaultConfig().Forecast.Policy()
	want := forecast.DefaultPolicy()
	assert.True(t, got.CPAFloor.Equal(want.CPAFloor))
	assert.True(t, got.CPADecay.Equal(want.CPADecay))
	assert.True(t, got.LTVCeiling.Equal(want.LTVCeiling))
	assert.True(t, got.LTVGrowth.Equal(want.LTVGrowth))
	assert.True(t, got.ShareCeiling.Equal(want.ShareCeiling))
	assert.True(t, got.ShareGrowth.Equal(want.ShareGrowth))
}

func TestCountryFallback(t *testing.T) {
	assert.Equal(t, model.Indonesia, GeneralConfig{}.Country())
	assert.Equal(t, model.Thailand, GeneralConfig{DefaultCountry: "Thailand"}.Country())
}
