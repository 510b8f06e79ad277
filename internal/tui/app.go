// Package tui provides the interactive Bubble Tea dashboard for adpulse.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/config"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/logging"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"
	"github.com/theirongolddev/adpulse/internal/store"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, in components.Tabs order.
const (
	tabOverview = iota
	tabForecast
	tabCampaigns
	tabBudget
	tabJourney
	tabInsights
	tabSettings
)

// DataLoadedMsg is sent when the initial dataset load finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// Options configures a new dashboard.
type Options struct {
	DataFile string
	UseCache bool
	Country  model.CountryID
	Horizon  int
	Policy   forecast.Policy
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	data     *model.Dataset
	source   string
	cacheHit bool
	revision string
	loaded   bool
	loadErr  string
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Selection
	country   model.CountryID
	horizon   int
	metric    model.MetricKind
	filter    pipeline.CampaignFilter
	allMarket bool
	stage     int

	// Pre-computed for the current selection
	summaries   []model.MetricSummary
	summaryErr  error
	projected   []model.ForecastPoint
	forecastErr error
	campaigns   []model.Campaign
	campTotals  pipeline.CampaignSummary
	budget      pipeline.BudgetSummary
	products    pipeline.ProductSummary

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	minRefreshSec    = 10
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.For("tui").WithError(err).Warn("config unreadable, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Country == model.CountryAll {
		opts.Country = model.Indonesia
	}
	if opts.Horizon <= 0 {
		opts.Horizon = forecast.DefaultHorizon
	}
	if opts.Policy == (forecast.Policy{}) {
		opts.Policy = forecast.DefaultPolicy()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < minRefreshSec*time.Second {
		refreshInterval = 30 * time.Second
	}

	return App{
		opts:            opts,
		country:         opts.Country,
		horizon:         opts.Horizon,
		metric:          model.MetricNewUsers,
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute derives every tab's numbers from the dataset and selection.
func (a *App) recompute() {
	if a.data == nil {
		return
	}
	ids := a.data.CountryIDs()
	if _, ok := a.data.Country(a.country); !ok && len(ids) > 0 {
		a.country = ids[0]
	}

	cd, ok := a.data.Country(a.country)
	a.summaries, a.summaryErr = nil, nil
	a.projected, a.forecastErr = nil, nil
	if ok {
		a.summaries, a.summaryErr = forecast.Summarize(cd)
		a.projected, a.forecastErr = forecast.Project(cd.Historical, a.horizon, a.opts.Policy)
		a.stage = min(a.stage, max(len(cd.Journey)-1, 0))
	}

	a.filter.Country = a.country
	if a.allMarket {
		a.filter.Country = model.CountryAll
	}
	a.campaigns = pipeline.CampaignsByBudget(pipeline.FilterCampaigns(a.data.Campaigns, a.filter))
	a.campTotals = pipeline.CampaignTotals(a.campaigns)
	a.budget = pipeline.BudgetTotals(a.data.Budget)
	a.products = pipeline.ProductTotals(a.data)
}

func (a *App) applyResult(res *pipeline.LoadResult, err error, took time.Duration) {
	a.loadTime = took
	if err != nil {
		a.loadErr = err.Error()
		logging.For("tui").WithError(err).Warn("dataset load failed")
		return
	}
	a.loadErr = ""
	a.data = res.Dataset
	a.source = res.Source
	a.cacheHit = res.CacheHit
	a.revision = res.Revision
	a.recompute()
}

func (a *App) cycleCountry(step int) {
	if a.data == nil {
		return
	}
	ids := a.data.CountryIDs()
	if len(ids) == 0 {
		return
	}
	idx := 0
	for i, id := range ids {
		if id == a.country {
			idx = i
		}
	}
	a.country = ids[(idx+step+len(ids))%len(ids)]
	a.stage = 0
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.lastRefresh = time.Now()
		a.applyResult(msg.Result, msg.Err, msg.LoadTime)

		if a.needSetup {
			a.setupForm = newSetupForm(a.data, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts))
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Err == nil && msg.Result != nil && msg.Result.Revision == a.revision {
			a.loadErr = ""
			a.loadTime = msg.LoadTime
			return a, nil
		}
		a.applyResult(msg.Result, msg.Err, msg.LoadTime)
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Settings tab has its own keybindings (text input)
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	if m, cmd, handled := a.updateTabKey(key); handled {
		return m, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		if err := config.Save(cfg); err != nil {
			logging.For("tui").WithError(err).Warn("could not persist auto-refresh")
		}
		return a, nil
	case "n":
		a.cycleCountry(1)
		return a, nil
	case "N":
		a.cycleCountry(-1)
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// updateTabKey handles keys that only mean something on the active tab.
func (a App) updateTabKey(key string) (App, tea.Cmd, bool) {
	switch a.activeTab {
	case tabForecast:
		switch key {
		case "+", "=":
			if a.horizon < config.MaxHorizon {
				a.horizon++
				a.recompute()
			}
			return a, nil, true
		case "-", "_":
			if a.horizon > 0 {
				a.horizon--
				a.recompute()
			}
			return a, nil, true
		case "m":
			a.metric = model.AllMetrics[(int(a.metric)+1)%len(model.AllMetrics)]
			return a, nil, true
		}

	case tabCampaigns:
		switch key {
		case "p":
			a.filter.Platform = nextPlatform(a.filter.Platform)
		case "s":
			a.filter.Status = nextStatus(a.filter.Status)
		case "a":
			a.allMarket = !a.allMarket
		case "0":
			a.filter = pipeline.CampaignFilter{}
			a.allMarket = false
		default:
			return a, nil, false
		}
		a.recompute()
		return a, nil, true

	case tabJourney:
		stages := a.journey()
		switch key {
		case "]", "l":
			if a.stage < len(stages)-1 {
				a.stage++
			}
			return a, nil, true
		case "[", "h":
			if a.stage > 0 {
				a.stage--
			}
			return a, nil, true
		}
	}
	return a, nil, false
}

func nextPlatform(p model.Platform) model.Platform {
	order := append([]model.Platform{model.PlatformAll}, model.Platforms...)
	for i, v := range order {
		if v == p {
			return order[(i+1)%len(order)]
		}
	}
	return model.PlatformAll
}

func nextStatus(s model.CampaignStatus) model.CampaignStatus {
	order := append([]model.CampaignStatus{model.StatusAll}, model.Statuses...)
	for i, v := range order {
		if v == s {
			return order[(i+1)%len(order)]
		}
	}
	return model.StatusAll
}

func (a App) journey() []model.JourneyStage {
	if a.data == nil {
		return nil
	}
	cd, _ := a.data.Country(a.country)
	return cd.Journey
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetupConfig(); err != nil {
			logging.For("tui").WithError(err).Warn("could not save setup")
		}
		a.needSetup = false
		a.setupForm = nil
		a.recompute()
		// A new data file takes effect on the next load.
		if a.opts.DataFile != "" && a.opts.DataFile != a.source {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.data == nil {
		return a.viewLoadFailed()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  adpulse needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) centeredCard(body string) string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	src := "built-in dataset"
	if a.opts.DataFile != "" {
		src = a.opts.DataFile
	}

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ adpulse"))
	b.WriteString(subtitleStyle.Render(" · Marketing Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading " + src + "..."))
	return a.centeredCard(b.String())
}

func (a App) viewLoadFailed() string {
	t := theme.Active
	warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body := warn.Render("Could not load dataset") + "\n\n" +
		muted.Render(a.loadErr) + "\n\n" +
		muted.Render("[r] retry  [q] quit")
	return a.centeredCard(body)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o f c b j i x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"n N", "Next / Previous market"},
		}},
		{"Forecast", [][2]string{
			{"+ -", "Extend / Shorten horizon"},
			{"m", "Cycle charted metric"},
		}},
		{"Campaigns", [][2]string{
			{"p s", "Cycle platform / status"},
			{"a", "All markets"},
			{"0", "Clear filters"},
		}},
		{"Journey", [][2]string{
			{"[ ]", "Previous / Next stage"},
		}},
		{"Actions", [][2]string{
			{"r", "Reload data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-14s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// contextLine summarizes the current market and campaign filter.
func (a App) contextLine() string {
	parts := []string{"Market: " + a.country.String()}
	switch a.activeTab {
	case tabForecast:
		parts = append(parts, fmt.Sprintf("Horizon: %d months", a.horizon), "Chart: "+a.metric.String())
	case tabCampaigns:
		market := a.country.String()
		if a.allMarket {
			market = "All"
		}
		parts = []string{
			"Market: " + market,
			"Platform: " + a.filter.Platform.String(),
			"Status: " + a.filter.Status.String(),
		}
	case tabJourney:
		if stages := a.journey(); len(stages) > 0 {
			parts = append(parts, fmt.Sprintf("Stage %d/%d", a.stage+1, len(stages)))
		}
	}
	return strings.Join(parts, "  │  ")
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w, a.contextLine())
	statusBar := components.RenderStatusBar(w, components.Status{
		Source:      a.source,
		CacheHit:    a.cacheHit,
		LoadSeconds: a.loadTime.Seconds(),
		SpentPct:    a.budget.SpentPct,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Err:         a.loadErr,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabCampaigns:
		content = a.renderCampaignsTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabJourney:
		content = a.renderJourneyTab(cw)
	case tabInsights:
		content = a.renderInsightsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataset loads through the SQLite cache when enabled, falling back to
// a direct decode if the cache cannot be opened.
func loadDataset(opts Options) (*pipeline.LoadResult, error) {
	if opts.UseCache && opts.DataFile != "" {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			return pipeline.LoadWithCache(opts.DataFile, cache)
		}
		logging.For("tui").WithError(err).Debug("cache unavailable")
	}
	return pipeline.Load(opts.DataFile)
}

func loadDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := loadDataset(opts)
		return DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := loadDataset(opts)
		return RefreshDataMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

// trendText renders "▲ +28.4%" in the trend's color.
func trendText(s model.MetricSummary) (string, lipgloss.Color) {
	return fmt.Sprintf("%s %s vs prev", cli.TrendArrow(s.Trend), cli.FormatChange(s.ChangePercent())),
		theme.Active.TrendColor(s.Trend)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
