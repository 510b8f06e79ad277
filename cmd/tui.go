package cmd

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/tui"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	id, err := selectedCountry()
	if err != nil {
		return err
	}
	theme.SetActive(appConfig.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	if err := tuiLogging(flagLogLevel); err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		DataFile: flagDataFile,
		UseCache: !flagNoCache,
		Country:  id,
		Horizon:  flagHorizon,
		Policy:   forecastPolicy(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// tuiLogging keeps only errors while the alt screen is up, since log lines
// would tear it. An explicit --log-level wins.
func tuiLogging(explicit string) error {
	if explicit != "" {
		return nil
	}
	if err := logging.Setup("error", "text", nil); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	return nil
}
