package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/cli"
	"github.com/theirongolddev/adpulse/internal/pipeline"
	"github.com/theirongolddev/adpulse/internal/tui/components"
	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	tot := a.budget
	remainingColor := t.Green
	if tot.Remaining.IsNegative() {
		remainingColor = t.Red
	}
	cards := []components.Metric{
		{Label: "Allocated", Value: cli.FormatCurrency(tot.Allocated), Footer: fmt.Sprintf("%d channels", len(a.data.Budget))},
		{Label: "Spent", Value: cli.FormatCurrency(tot.Spent),
			Delta: cli.FormatPercentValue(tot.SpentPct) + " used", DeltaColor: t.SpendColor(tot.SpentPct.InexactFloat64())},
		{Label: "Remaining", Value: cli.FormatCurrency(tot.Remaining), DeltaColor: remainingColor,
			Delta: cli.FormatPercentValue(pipeline.Percent(tot.Remaining, tot.Allocated)) + " left"},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Allocation by Channel", a.budgetBody(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) budgetBody(innerW int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	lines := a.data.Budget
	if len(lines) == 0 {
		return dimStyle.Render("No budget lines in this dataset")
	}

	labelW := 16
	for _, l := range lines {
		labelW = max(labelW, len([]rune(l.Channel)))
	}
	labelW = min(labelW, 24)
	const detailW = 24
	barW := max(innerW-labelW-detailW-8, 10)

	var body strings.Builder
	for _, l := range lines {
		pct := pipeline.Percent(l.Spent, l.Allocated)
		detail := cli.FormatCompactCurrency(l.Spent) + " / " + cli.FormatCompactCurrency(l.Allocated)
		body.WriteString(components.BudgetBar(truncStr(l.Channel, labelW), pct, detail, labelW, barW))
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(totalStyle.Render(fmt.Sprintf("%-*s", labelW, "Total")))
	body.WriteString(dimStyle.Render(fmt.Sprintf(" %s of %s spent · %s remaining",
		cli.FormatCurrency(a.budget.Spent),
		cli.FormatCurrency(a.budget.Allocated),
		cli.FormatCurrency(a.budget.Remaining))))
	return body.String()
}
