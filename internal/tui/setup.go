package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues receives the first-run answers.
type setupValues struct {
	country  string
	horizon  int
	theme    string
	dataFile string
}

// horizonChoices are the forecast lengths offered during setup.
var horizonChoices = []int{3, 6, 12}

// newSetupForm builds the first-run wizard. ds may be nil when the initial
// load failed; the market list then falls back to every known market.
func newSetupForm(ds *model.Dataset, vals *setupValues) *huh.Form {
	cfg := loadConfigOrDefault()
	vals.country = string(cfg.General.Country())
	vals.horizon = cfg.General.Horizon
	vals.theme = cfg.Appearance.Theme
	vals.dataFile = cfg.General.DataFile

	markets := model.CountryOrder
	if ds != nil && len(ds.Countries) > 0 {
		markets = ds.CountryIDs()
	}
	countryOpts := make([]huh.Option[string], len(markets))
	for i, id := range markets {
		countryOpts[i] = huh.NewOption(id.String(), string(id))
	}

	horizonOpts := make([]huh.Option[int], len(horizonChoices))
	for i, n := range horizonChoices {
		horizonOpts[i] = huh.NewOption(fmt.Sprintf("%d months", n), n)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, th := range theme.All {
		themeOpts[i] = huh.NewOption(th.Name, th.Name)
	}

	intro := "Let's set up a few things."
	if ds != nil {
		intro = fmt.Sprintf("Loaded %d markets and %d campaigns.\nLet's set up a few things.",
			len(ds.Countries), len(ds.Campaigns))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to adpulse").
				Description(intro),
			huh.NewSelect[string]().
				Title("Default market").
				Options(countryOpts...).
				Value(&vals.country),
			huh.NewSelect[int]().
				Title("Forecast horizon").
				Options(horizonOpts...).
				Value(&vals.horizon),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewInput().
				Title("Dataset file").
				Description("TOML dataset to load instead of the built-in data. Leave blank to skip.").
				Placeholder("~/marketing/q3.toml").
				Value(&vals.dataFile).
				Validate(validateDataFile),
		),
	).WithShowHelp(true)
}

func validateDataFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(expandHome(s))
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

func expandHome(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}
	return p
}

// saveSetupConfig writes the wizard answers and applies them to the running app.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	cfg.General.DefaultCountry = a.setupVals.country
	cfg.General.Horizon = a.setupVals.horizon
	cfg.Appearance.Theme = a.setupVals.theme
	cfg.General.DataFile = expandHome(strings.TrimSpace(a.setupVals.dataFile))

	theme.SetActive(cfg.Appearance.Theme)
	a.country = cfg.General.Country()
	if cfg.General.Horizon > 0 {
		a.horizon = cfg.General.Horizon
	}
	if cfg.General.DataFile != "" {
		a.opts.DataFile = cfg.General.DataFile
	}

	return config.Save(cfg)
}
