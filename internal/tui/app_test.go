package tui

import (
	"strings"
	"testing"

	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"

	tea "github.com/charmbracelet/bubbletea"
)

func loadedApp(t *testing.T) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := NewApp(Options{Country: model.Indonesia})
	res, err := pipeline.Load("")
	if err != nil {
		t.Fatalf("load builtin: %v", err)
	}
	m, _ := a.Update(DataLoadedMsg{Result: res})
	a = m.(App)
	a.needSetup = false
	a.setupForm = nil
	m, _ = a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestLoadComputesSummaries(t *testing.T) {
	a := loadedApp(t)
	if a.summaryErr != nil {
		t.Fatalf("summaryErr = %v", a.summaryErr)
	}
	if len(a.summaries) != len(model.AllMetrics) {
		t.Fatalf("got %d summaries, want %d", len(a.summaries), len(model.AllMetrics))
	}
	if len(a.projected) != forecast.DefaultHorizon {
		t.Fatalf("got %d projected points, want %d", len(a.projected), forecast.DefaultHorizon)
	}
	if a.source != pipeline.SourceBuiltin {
		t.Fatalf("source = %q", a.source)
	}
}

func TestCycleCountry(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, "n")
	if a.country != model.Thailand {
		t.Fatalf("after n country = %s, want thailand", a.country)
	}
	a = press(t, a, "n", "n")
	if a.country != model.Indonesia {
		t.Fatalf("cycling should wrap, got %s", a.country)
	}
	a = press(t, a, "N")
	if a.country != model.Malaysia {
		t.Fatalf("after N country = %s, want malaysia", a.country)
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	steps := []struct {
		key  string
		want int
	}{
		{"f", tabForecast},
		{"c", tabCampaigns},
		{"b", tabBudget},
		{"j", tabJourney},
		{"i", tabInsights},
		{"x", tabSettings},
		{"o", tabOverview},
	}
	for _, s := range steps {
		a = press(t, a, s.key)
		if a.activeTab != s.want {
			t.Fatalf("key %q -> tab %d, want %d", s.key, a.activeTab, s.want)
		}
	}
	a = press(t, a, "left")
	if a.activeTab != tabSettings {
		t.Fatalf("left from overview should wrap to settings, got %d", a.activeTab)
	}
}

func TestForecastHorizonKeys(t *testing.T) {
	a := press(t, loadedApp(t), "f", "+", "+")
	if a.horizon != forecast.DefaultHorizon+2 || len(a.projected) != forecast.DefaultHorizon+2 {
		t.Fatalf("horizon = %d, projected = %d", a.horizon, len(a.projected))
	}
	for range 20 {
		a = press(t, a, "-")
	}
	if a.horizon != 0 || len(a.projected) != 0 {
		t.Fatalf("horizon should stop at 0, got %d", a.horizon)
	}
	a = press(t, a, "m")
	if a.metric != model.MetricRevenue {
		t.Fatalf("metric = %s, want revenue", a.metric)
	}
}

func TestCampaignFilterKeys(t *testing.T) {
	a := press(t, loadedApp(t), "c")
	if a.campTotals.Count != 3 {
		t.Fatalf("indonesia campaigns = %d, want 3", a.campTotals.Count)
	}

	a = press(t, a, "a")
	if a.campTotals.Count != 7 {
		t.Fatalf("all-market campaigns = %d, want 7", a.campTotals.Count)
	}

	a = press(t, a, "s") // active
	if a.filter.Status != model.StatusActive || a.campTotals.Count != 4 {
		t.Fatalf("status=%s count=%d, want active/4", a.filter.Status, a.campTotals.Count)
	}

	a = press(t, a, "p") // shopee
	if a.filter.Platform != model.PlatformShopee || a.campTotals.Count != 3 {
		t.Fatalf("platform=%s count=%d, want shopee/3", a.filter.Platform, a.campTotals.Count)
	}

	a = press(t, a, "0")
	if a.filter.Platform != model.PlatformAll || a.filter.Status != model.StatusAll || a.allMarket || a.campTotals.Count != 3 {
		t.Fatalf("clear should reset filters, got %+v count=%d", a.filter, a.campTotals.Count)
	}
}

func TestJourneyStageKeys(t *testing.T) {
	a := press(t, loadedApp(t), "j")
	stages := a.journey()
	if len(stages) == 0 {
		t.Fatal("builtin market should have a journey")
	}
	a = press(t, a, "[")
	if a.stage != 0 {
		t.Fatalf("stage should not go below 0, got %d", a.stage)
	}
	for range len(stages) + 3 {
		a = press(t, a, "]")
	}
	if a.stage != len(stages)-1 {
		t.Fatalf("stage = %d, want %d", a.stage, len(stages)-1)
	}
	a = press(t, a, "n")
	if a.stage != 0 {
		t.Fatalf("changing market should reset stage, got %d", a.stage)
	}
}

func TestSettingsEditHorizon(t *testing.T) {
	a := press(t, loadedApp(t), "x", "j")
	if a.settings.cursor != settingsFieldHorizon {
		t.Fatalf("cursor = %d", a.settings.cursor)
	}
	a = press(t, a, "enter")
	if !a.settings.editing {
		t.Fatal("enter should start editing")
	}
	a.settings.input.SetValue("12")
	a = press(t, a, "enter")
	if a.settings.editing || a.settings.saveErr != nil {
		t.Fatalf("save failed: editing=%v err=%v", a.settings.editing, a.settings.saveErr)
	}
	if a.horizon != 12 || len(a.projected) != 12 {
		t.Fatalf("horizon = %d, projected = %d", a.horizon, len(a.projected))
	}
}

func TestSettingsRejectsUnknownTheme(t *testing.T) {
	a := press(t, loadedApp(t), "x", "j", "j", "enter")
	a.settings.input.SetValue("neon-pink")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Fatal("unknown theme should be rejected")
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	for i := range tabSettings + 1 {
		a.activeTab = i
		out := a.View()
		if got := strings.Count(out, "\n") + 1; got != a.height {
			t.Fatalf("tab %d rendered %d lines, want %d", i, got, a.height)
		}
	}
}

func TestInsightsTab(t *testing.T) {
	a := press(t, loadedApp(t), "i")
	if a.activeTab != tabInsights {
		t.Fatalf("activeTab = %d, want insights", a.activeTab)
	}
	if a.products.LeadCategory != "Enterprise" || a.products.TopPartner != "Partner C" {
		t.Fatalf("product totals not computed: %+v", a.products)
	}
	out := a.renderInsightsTab(a.contentWidth())
	for _, want := range []string{"Product Categories", "Storefront Conversion", "High Price", "Competitor A", "Partner C"} {
		if !strings.Contains(out, want) {
			t.Fatalf("insights tab missing %q", want)
		}
	}

	empty := a
	empty.data = &model.Dataset{}
	empty.recompute()
	out = empty.renderInsightsTab(a.contentWidth())
	if !strings.Contains(out, "No category data") || !strings.Contains(out, "No market data") {
		t.Fatal("empty dataset should render placeholders")
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if out := m.(App).View(); !strings.Contains(out, "too narrow") {
		t.Fatalf("expected narrow warning, got %q", out)
	}
}

func TestRefreshSameRevisionKeepsState(t *testing.T) {
	a := press(t, loadedApp(t), "n")
	res, err := pipeline.Load("")
	if err != nil {
		t.Fatal(err)
	}
	m, _ := a.Update(RefreshDataMsg{Result: res})
	a = m.(App)
	if a.country != model.Thailand {
		t.Fatalf("refresh reset the market to %s", a.country)
	}
}
