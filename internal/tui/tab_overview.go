package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/pipeline"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	var b strings.Builder

	// Row 1: KPI cards
	if a.summaryErr != nil {
		b.WriteString(components.ContentCard("KPIs", warnText(a.summaryErr.Error()), cw))
	} else {
		cards := make([]components.Metric, len(a.summaries))
		for i, s := range a.summaries {
			delta, color := trendText(s)
			cards[i] = components.Metric{
				Label:      s.Name,
				Value:      cli.FormatMetric(s.Metric, s.Current),
				Delta:      delta,
				DeltaColor: color,
				Footer:     "target " + cli.FormatMetric(s.Metric, s.Target),
			}
		}
		if a.isCompactLayout() && len(cards) > 3 {
			b.WriteString(components.MetricCardRow(cards[:3], cw))
			b.WriteString("\n")
			b.WriteString(components.MetricCardRow(cards[3:], cw))
		} else {
			b.WriteString(components.MetricCardRow(cards, cw))
		}
	}
	b.WriteString("\n")

	// Row 2: target progress + forecast targets
	halves := components.LayoutRow(cw, 2)
	progressCard := components.ContentCard("Progress to Target", a.targetProgressBody(components.CardInnerWidth(halves[0])), halves[0])

	// Row 2 right: markets
	regionCard := components.ContentCard("Markets", a.regionsBody(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(progressCard)
		b.WriteString("\n")
		b.WriteString(regionCard)
	} else {
		b.WriteString(components.CardRow([]string{progressCard, regionCard}))
	}
	b.WriteString("\n")

	// Row 3: channels
	b.WriteString(components.ContentCard("Acquisition Channels", a.channelsBody(components.CardInnerWidth(cw)), cw))

	return b.String()
}

func (a App) targetProgressBody(innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.summaries) == 0 {
		return dimStyle.Render("No KPI history for this market")
	}

	labelW := 20
	barW := max(innerW-labelW-8, 10)

	var body strings.Builder
	for i, s := range a.summaries {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, s.Name)))
		body.WriteString(components.ProgressBar(s.TargetProgress().InexactFloat64(), barW))
	}
	body.WriteString("\n")
	body.WriteString(dimStyle.Render("CPA target is a ceiling; under 100% is better"))
	return body.String()
}

func (a App) regionsBody(innerW int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	valStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	regions := a.data.Regions
	if len(regions) == 0 {
		return valStyle.Render("No regional data")
	}

	maxRev := 0.0
	for _, r := range regions {
		maxRev = max(maxRev, r.Revenue.InexactFloat64())
	}

	nameW := 12
	valW := 20
	barMax := max(innerW-nameW-valW-2, 4)

	var body strings.Builder
	for _, r := range regions {
		barLen := 0
		if maxRev > 0 {
			barLen = int(r.Revenue.InexactFloat64() / maxRev * float64(barMax))
		}
		val := fmt.Sprintf("%s %s", cli.FormatCompactCurrency(r.Revenue), cli.FormatChange(r.Growth))
		body.WriteString(nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(r.Country.String(), nameW))))
		body.WriteString(barStyle.Render(strings.Repeat("█", barLen)))
		body.WriteString(space.Render(strings.Repeat(" ", barMax-barLen+1)))
		body.WriteString(valStyle.Render(val))
		body.WriteString("\n")
	}

	totals := pipeline.RegionTotals(regions)
	body.WriteString(valStyle.Render(fmt.Sprintf("Total %s users · %s revenue",
		cli.FormatNumber(totals.Users), cli.FormatCompactCurrency(totals.Revenue))))
	return body.String()
}

func (a App) channelsBody(innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	channels := a.data.Channels
	if len(channels) == 0 {
		return dimStyle.Render("No channel data")
	}
	share := pipeline.UserShare(channels)

	nameW := max(innerW-52, 14)
	format := fmt.Sprintf("%%-%ds %%10s %%8s %%12s %%10s %%8s", nameW)

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf(format, "Channel", "Users", "Share", "Revenue", "Conv.", "CPA")))
	body.WriteString("\n")
	for _, c := range channels {
		body.WriteString(rowStyle.Render(fmt.Sprintf(format,
			truncStr(c.Name, nameW),
			cli.FormatNumber(c.Users),
			cli.FormatPercentValue(share[c.Name]),
			cli.FormatCurrency(c.Revenue),
			cli.FormatPercentValue(c.ConversionRate),
			"$"+c.CPA.StringFixed(2),
		)))
		body.WriteString("\n")
	}
	totals := pipeline.ChannelTotals(channels)
	body.WriteString(dimStyle.Render(fmt.Sprintf(format,
		"Total", cli.FormatNumber(totals.Users), "", cli.FormatCurrency(totals.Revenue), "", "")))
	return body.String()
}

// warnText styles an inline error for a card body.
func warnText(msg string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(msg)
}

// metricValues extracts one metric from a series as floats for charting.
func metricValues(points []model.TimeSeriesPoint, m model.MetricKind) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value(m).InexactFloat64()
	}
	return out
}
