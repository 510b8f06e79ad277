package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/forecast"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const forecastChartHeight = 12

func (a App) renderForecastTab(cw int) string {
	cd, ok := a.data.Country(a.country)
	if !ok {
		return components.ContentCard("Forecast", warnText("No KPI history for "+a.country.String()), cw)
	}

	var b strings.Builder

	// Row 1: chart of the selected metric
	chartTitle := fmt.Sprintf("%s · %d observed + %d projected", a.metric, len(cd.Historical), len(a.projected))
	if a.forecastErr != nil {
		b.WriteString(components.ContentCard(chartTitle, warnText(a.forecastErr.Error()), cw))
	} else {
		labels := make([]string, 0, len(cd.Historical)+len(a.projected))
		for _, p := range cd.Historical {
			labels = append(labels, p.Period.Format("Jan"))
		}
		for _, p := range a.projected {
			labels = append(labels, p.Period.Format("Jan"))
		}
		innerW := components.CardInnerWidth(cw)
		chart := components.ForecastChart(
			metricValues(cd.Historical, a.metric),
			metricValues(model.Observed(a.projected), a.metric),
			labels, innerW, forecastChartHeight)
		b.WriteString(components.ContentCard(chartTitle, chart, cw))
	}
	b.WriteString("\n")

	// Row 2: table + sparklines
	var tableW, sparkW int
	if a.isCompactLayout() {
		tableW, sparkW = cw, cw
	} else {
		widths := components.LayoutRow(cw, 3)
		tableW = widths[0] + widths[1]
		sparkW = widths[2]
	}
	tableCard := components.ContentCard("Series", a.forecastTableBody(cd, components.CardInnerWidth(tableW)), tableW)
	sparkCard := components.ContentCard("All Metrics", a.forecastSparkBody(cd, components.CardInnerWidth(sparkW)), sparkW)

	if a.isCompactLayout() {
		b.WriteString(tableCard)
		b.WriteString("\n")
		b.WriteString(sparkCard)
	} else {
		b.WriteString(components.CardRow([]string{tableCard, sparkCard}))
	}
	return b.String()
}

func (a App) forecastTableBody(cd model.CountryData, innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	projStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	format := "%-9s %10s %12s %8s %8s %8s %s"
	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf(format, "Period", "New Users", "Revenue", "CPA", "LTV", "Share", "")))
	body.WriteString("\n")

	row := func(p model.TimeSeriesPoint, mark string) string {
		return fmt.Sprintf(format,
			p.Period.Format("Jan 2006"),
			cli.FormatNumber(p.NewUsers),
			cli.FormatCompactCurrency(p.Revenue),
			"$"+p.CPA.StringFixed(2),
			"$"+p.LTV.StringFixed(2),
			cli.FormatShare(p.SubscriptionShare),
			mark,
		)
	}

	for _, p := range cd.Historical {
		body.WriteString(rowStyle.Render(truncStr(row(p, ""), innerW)))
		body.WriteString("\n")
	}
	for _, p := range a.projected {
		body.WriteString(projStyle.Render(truncStr(row(p.TimeSeriesPoint, "◆"), innerW)))
		body.WriteString("\n")
	}
	body.WriteString(dimStyle.Render("◆ projected  [+/-] horizon  [m] metric"))
	return body.String()
}

func (a App) forecastSparkBody(cd model.CountryData, innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	series := append(append([]model.TimeSeriesPoint{}, cd.Historical...), model.Observed(a.projected)...)
	if len(series) == 0 {
		return labelStyle.Render("No data")
	}
	first, last := series[0], series[len(series)-1]

	var body strings.Builder
	for i, m := range model.AllMetrics {
		if i > 0 {
			body.WriteString("\n\n")
		}
		style := labelStyle
		if m == a.metric {
			style = activeStyle
		}
		body.WriteString(style.Render(m.String()))
		body.WriteString(valueStyle.Render("  " + cli.FormatMetric(m, last.Value(m))))
		body.WriteString("\n")
		vals := metricValues(series, m)
		if len(vals) > innerW {
			vals = vals[len(vals)-innerW:]
		}
		body.WriteString(components.Sparkline(vals, t.TrendColor(forecast.Classify(m, last.Value(m), first.Value(m)))))
	}
	return body.String()
}
