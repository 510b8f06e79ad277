package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"
	"github.com/theirongolddev/adpulse/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagCountry  string
	flagDataFile string
	flagHorizon  int
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

// appConfig is the loaded config, resolved once per invocation.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "adpulse",
	Short:             "Marketing KPI dashboard",
	Long:              "Track KPIs, forecasts, campaigns and budget across South-East Asian markets.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagCountry, "country", "c", "", "Market to report on (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagDataFile, "data-file", "f", "", "TOML dataset file (default: built-in data)")
	rootCmd.PersistentFlags().IntVarP(&flagHorizon, "horizon", "H", 0, "Forecast horizon in months (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache, decode the dataset file directly")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

// setup loads config and applies it underneath any flags the user set.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config should not stop reporting; flags still apply.
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	level := cfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if err := logging.Setup(level, "text", os.Stderr); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("country") {
		flagCountry = string(cfg.General.Country())
	}
	if !flags.Changed("horizon") {
		flagHorizon = cfg.General.Horizon
	}
	if !flags.Changed("data-file") {
		flagDataFile = cfg.General.DataFile
	}
	if flagHorizon < 0 || flagHorizon > config.MaxHorizon {
		return fmt.Errorf("--horizon must be between 0 and %d, got %d", config.MaxHorizon, flagHorizon)
	}
	logging.For("cmd").WithFields(logrus.Fields{
		"command":   cmd.Name(),
		"country":   flagCountry,
		"horizon":   flagHorizon,
		"data_file": flagDataFile,
	}).Debug("resolved options")
	return nil
}

// selectedCountry parses --country. "all" is rejected for per-market reports.
func selectedCountry() (model.CountryID, error) {
	id, err := model.ParseCountry(flagCountry)
	if err != nil {
		return "", err
	}
	if id == model.CountryAll {
		return "", fmt.Errorf("--country all is only valid for campaigns")
	}
	return id, nil
}

// forecastPolicy returns the drift configured in [forecast].
func forecastPolicy() forecast.Policy {
	return appConfig.Forecast.Policy()
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if flagDataFile == "" {
		return pipeline.Load("")
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading %s...\n", flagDataFile)
	}

	// Try cached load unless --no-cache
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, decoding file\n")
			}
			logging.For("cmd").WithError(err).Debug("cache open failed")
		} else {
			defer func() { _ = cache.Close() }()

			res, err := pipeline.LoadWithCache(flagDataFile, cache)
			if err == nil {
				reportLoad(res)
				return res, nil
			}
			if errors.Is(err, model.ErrInvalidRecord) {
				return nil, err
			}
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache error, falling back to a direct decode\n")
			}
			logging.For("cmd").WithError(err).Debug("cached load failed")
		}
	}

	res, err := pipeline.Load(flagDataFile)
	if err != nil {
		return nil, err
	}
	reportLoad(res)
	return res, nil
}

func reportLoad(res *pipeline.LoadResult) {
	if flagQuiet {
		return
	}
	how := "decoded"
	if res.CacheHit {
		how = "from cache"
	}
	fmt.Fprintf(os.Stderr, "  Loaded %d markets, %s campaigns (%s)\n",
		len(res.Dataset.Countries), cli.FormatNumber(int64(len(res.Dataset.Campaigns))), how)
}

// countryData loads the dataset and looks up the selected market.
func countryData() (*pipeline.LoadResult, model.CountryData, error) {
	id, err := selectedCountry()
	if err != nil {
		return nil, model.CountryData{}, err
	}
	res, err := loadData()
	if err != nil {
		return nil, model.CountryData{}, err
	}
	cd, ok := res.Dataset.Country(id)
	if !ok {
		return nil, model.CountryData{}, fmt.Errorf("no KPI data for %s in %s", id, res.Source)
	}
	return res, cd, nil
}
