package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldCountry = iota
	settingsFieldHorizon
	settingsFieldTheme
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldDataFile
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldCountry:
		ti.Placeholder = "indonesia, malaysia, thailand"
		ti.SetValue(string(a.country))
	case settingsFieldHorizon:
		ti.Placeholder = fmt.Sprintf("6 (months, 0-%d)", config.MaxHorizon)
		ti.SetValue(strconv.Itoa(a.horizon))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = fmt.Sprintf("30 (seconds, minimum %d)", minRefreshSec)
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	case settingsFieldDataFile:
		ti.Placeholder = "path to a TOML dataset, empty for built-in"
		ti.SetValue(a.opts.DataFile)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		reload := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		if reload && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates and persists the edited field. It reports whether
// the dataset must be reloaded.
func (a *App) settingsSave() bool {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	reload := false

	switch a.settings.cursor {
	case settingsFieldCountry:
		id, err := model.ParseCountry(val)
		if err != nil || id == model.CountryAll {
			a.settings.saveErr = fmt.Errorf("unknown market %q", val)
			return false
		}
		cfg.General.DefaultCountry = string(id)
		a.country = id
		a.stage = 0
		a.recompute()
	case settingsFieldHorizon:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 || n > config.MaxHorizon {
			a.settings.saveErr = fmt.Errorf("horizon must be 0-%d", config.MaxHorizon)
			return false
		}
		cfg.General.Horizon = n
		a.horizon = n
		a.recompute()
	case settingsFieldTheme:
		if !theme.Known(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return false
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldAutoRefresh:
		b, err := strconv.ParseBool(val)
		if err != nil {
			b = val == "yes" || val == "on"
		}
		cfg.TUI.AutoRefresh = b
		a.autoRefresh = b
	case settingsFieldRefreshInterval:
		n, err := strconv.Atoi(val)
		if err != nil || n < minRefreshSec {
			a.settings.saveErr = fmt.Errorf("interval must be at least %ds", minRefreshSec)
			return false
		}
		cfg.TUI.RefreshIntervalSec = n
		a.refreshInterval = time.Duration(n) * time.Second
	case settingsFieldDataFile:
		if err := validateDataFile(val); err != nil {
			a.settings.saveErr = err
			return false
		}
		path := expandHome(val)
		cfg.General.DataFile = path
		reload = path != a.opts.DataFile
		a.opts.DataFile = path
	}

	a.settings.saveErr = config.Save(cfg)
	return reload
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	dataFile := a.opts.DataFile
	if dataFile == "" {
		dataFile = "(built-in)"
	}

	fields := []struct {
		label string
		value string
	}{
		{"Default Market", a.country.String()},
		{"Horizon", fmt.Sprintf("%d months", a.horizon)},
		{"Theme", cfg.Appearance.Theme},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
		{"Data File", dataFile},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(truncStr(f.value, innerW-22))
			formBody.WriteString(marker + label + value)
			if padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(truncStr(f.value, innerW-22)))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		formBody.WriteString("\n")
		formBody.WriteString(warnText("Save failed: " + a.settings.saveErr.Error()))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	row := func(label, value string) {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", label)) + valueStyle.Render(value) + "\n")
	}
	src := a.source
	if a.cacheHit {
		src += " (cached)"
	}
	row("Source:", src)
	row("Revision:", a.revision)
	row("Markets:", cli.FormatNumber(int64(len(a.data.Countries))))
	row("Campaigns:", cli.FormatNumber(int64(len(a.data.Campaigns))))
	row("Load time:", fmt.Sprintf("%.2fs", a.loadTime.Seconds()))
	infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-17s", "Config file:")) + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
