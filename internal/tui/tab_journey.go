package tui

import (
	"strings"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderJourneyTab(cw int) string {
	t := theme.Active
	stages := a.journey()
	if len(stages) == 0 {
		return components.ContentCard("Customer Journey",
			lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No journey defined for "+a.country.String()), cw)
	}
	cur := min(a.stage, len(stages)-1)
	stage := stages[cur]

	var b strings.Builder
	b.WriteString(components.ContentCard("Customer Journey · "+a.country.String(), stageStrip(stages, cur, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")

	// Stage detail: lists on the left, metrics on the right
	widths := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		widths = []int{cw, cw}
	}
	detail := components.ContentCard(stage.Name, stageDetail(stage, components.CardInnerWidth(widths[0])), widths[0])
	metrics := components.ContentCard("Stage Metrics", stageMetrics(stage.Metrics), widths[1])

	if a.isCompactLayout() {
		b.WriteString(detail)
		b.WriteString("\n")
		b.WriteString(metrics)
	} else {
		b.WriteString(components.CardRow([]string{detail, metrics}))
	}
	return b.String()
}

// stageStrip renders "Awareness → Consideration → ..." with the current stage highlighted.
func stageStrip(stages []model.JourneyStage, current, innerW int) string {
	t := theme.Active
	activeStyle := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	todoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	arrowStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	var parts []string
	for i, s := range stages {
		switch {
		case i == current:
			parts = append(parts, activeStyle.Render(" "+s.Name+" "))
		case i < current:
			parts = append(parts, doneStyle.Render(s.Name))
		default:
			parts = append(parts, todoStyle.Render(s.Name))
		}
	}
	strip := strings.Join(parts, arrowStyle.Render(" → "))
	if lipgloss.Width(strip) > innerW {
		// Fall back to just the current stage when the row does not fit.
		strip = activeStyle.Render(" " + stages[current].Name + " ")
	}
	hint := todoStyle.Render("[ / ] previous / next stage")
	return strip + "\n" + hint
}

func stageDetail(s model.JourneyStage, innerW int) string {
	t := theme.Active
	descStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW)
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var body strings.Builder
	if s.Description != "" {
		body.WriteString(descStyle.Render(s.Description))
		body.WriteString("\n")
	}
	section := func(title, bullet string, items []string) {
		if len(items) == 0 {
			return
		}
		body.WriteString("\n")
		body.WriteString(headStyle.Render(title))
		for _, item := range items {
			body.WriteString("\n")
			body.WriteString(itemStyle.Render(bullet + " " + truncStr(item, innerW-2)))
		}
	}
	section("Touchpoints", "•", s.Touchpoints)
	section("Pain Points", "✗", s.PainPoints)
	section("Opportunities", "✓", s.Opportunities)
	return body.String()
}

func stageMetrics(metrics []model.JourneyMetric) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(metrics) == 0 {
		return labelStyle.Render("No metrics for this stage")
	}

	nameW := 0
	for _, m := range metrics {
		nameW = max(nameW, len([]rune(m.Name)))
	}

	var body strings.Builder
	for i, m := range metrics {
		if i > 0 {
			body.WriteString("\n")
		}
		valStyle := lipgloss.NewStyle().Foreground(t.TrendColor(m.Trend)).Background(t.Surface).Bold(true)
		body.WriteString(labelStyle.Render(m.Name + strings.Repeat(" ", nameW-len([]rune(m.Name))+2)))
		body.WriteString(valStyle.Render(m.Value + " " + cli.TrendArrow(m.Trend)))
	}
	return body.String()
}
