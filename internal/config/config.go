// Package config loads and saves the adpulse TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// MaxHorizon bounds the forecast horizon accepted from config and flags.
const MaxHorizon = 36

// Config holds all adpulse configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultCountry string `toml:"default_country"`
	Horizon        int    `toml:"horizon"`
	DataFile       string `toml:"data_file,omitempty"`
}

// ForecastConfig holds the per-period drift applied to projected metrics.
type ForecastConfig struct {
	CPAFloor     float64 `toml:"cpa_floor"`
	CPADecay     float64 `toml:"cpa_decay"`
	LTVCeiling   float64 `toml:"ltv_ceiling"`
	LTVGrowth    float64 `toml:"ltv_growth"`
	ShareCeiling float64 `toml:"share_ceiling"`
	ShareGrowth  float64 `toml:"share_growth"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard behavior.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultCountry: string(model.Indonesia),
			Horizon:        forecast.DefaultHorizon,
		},
		Forecast: ForecastConfig{
			CPAFloor:     15,
			CPADecay:     0.3,
			LTVCeiling:   120,
			LTVGrowth:    0.8,
			ShareCeiling: 0.65,
			ShareGrowth:  0.01,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8787",
			IntervalSec: 15,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Policy converts the configured drift into a forecast policy.
func (f ForecastConfig) Policy() forecast.Policy {
	return forecast.Policy{
		CPAFloor:     decimal.NewFromFloat(f.CPAFloor),
		CPADecay:     decimal.NewFromFloat(f.CPADecay),
		LTVCeiling:   decimal.NewFromFloat(f.LTVCeiling),
		LTVGrowth:    decimal.NewFromFloat(f.LTVGrowth),
		ShareCeiling: decimal.NewFromFloat(f.ShareCeiling),
		ShareGrowth:  decimal.NewFromFloat(f.ShareGrowth),
	}
}

// Country parses the configured default country, falling back to Indonesia.
func (g GeneralConfig) Country() model.CountryID {
	id, err := model.ParseCountry(g.DefaultCountry)
	if err != nil || id == model.CountryAll {
		return model.Indonesia
	}
	return id
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if _, err := model.ParseCountry(c.General.DefaultCountry); err != nil {
		return fmt.Errorf("general.default_country: %w", err)
	}
	if c.General.Horizon < 0 || c.General.Horizon > MaxHorizon {
		return fmt.Errorf("general.horizon must be within [0,%d], got %d", MaxHorizon, c.General.Horizon)
	}
	f := c.Forecast
	if f.CPAFloor < 0 || f.CPADecay < 0 || f.LTVCeiling < 0 || f.LTVGrowth < 0 || f.ShareGrowth < 0 {
		return errors.New("forecast: values must not be negative")
	}
	if f.ShareCeiling < 0 || f.ShareCeiling > 1 {
		return fmt.Errorf("forecast.share_ceiling must be within [0,1], got %g", f.ShareCeiling)
	}
	if c.TUI.RefreshIntervalSec < 0 {
		return fmt.Errorf("tui.refresh_interval_sec must not be negative, got %d", c.TUI.RefreshIntervalSec)
	}
	if c.Daemon.IntervalSec < 0 {
		return fmt.Errorf("daemon.interval_sec must not be negative, got %d", c.Daemon.IntervalSec)
	}
	return nil
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "adpulse")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "adpulse")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// ADPULSE_DATA_FILE and ADPULSE_LOG_LEVEL override the file.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", Path(), err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADPULSE_DATA_FILE"); v != "" {
		cfg.General.DataFile = v
	}
	if v := os.Getenv("ADPULSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
