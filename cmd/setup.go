package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	country := string(cfg.General.Country())
	horizon := strconv.Itoa(cfg.General.Horizon)
	themeName := cfg.Appearance.Theme
	dataFile := cfg.General.DataFile

	markets := make([]huh.Option[string], len(model.CountryOrder))
	for i, id := range model.CountryOrder {
		markets[i] = huh.NewOption(id.String(), string(id))
	}
	themes := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themes[i] = huh.NewOption(t.Name, t.Name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to adpulse").
				Description("Settings are saved to " + config.Path()),
			huh.NewSelect[string]().
				Title("Default market").
				Options(markets...).
				Value(&country),
			huh.NewInput().
				Title("Forecast horizon (months)").
				Value(&horizon).
				Validate(validateHorizon),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&themeName),
			huh.NewInput().
				Title("Dataset file").
				Description("TOML dataset to load instead of the built-in data. Leave blank to skip.").
				Value(&dataFile).
				Validate(validateDataFile),
		),
	)

	// ACCESSIBLE=1 swaps the TUI form for plain prompts.
	accessible, _ := strconv.ParseBool(os.Getenv("ACCESSIBLE"))
	if err := form.WithAccessible(accessible).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.General.DefaultCountry = country
	cfg.General.Horizon, _ = strconv.Atoi(strings.TrimSpace(horizon))
	cfg.General.DataFile = strings.TrimSpace(dataFile)
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `adpulse setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validateHorizon(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > config.MaxHorizon {
		return fmt.Errorf("enter a whole number between 0 and %d", config.MaxHorizon)
	}
	return nil
}

func validateDataFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}
