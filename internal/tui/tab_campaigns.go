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

func (a App) renderCampaignsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	tot := a.campTotals
	cards := []components.Metric{
		{Label: "Campaigns", Value: cli.FormatNumber(int64(tot.Count)), Footer: statusBreakdown(a.campaigns)},
		{Label: "Budget", Value: cli.FormatCompactCurrency(tot.Budget)},
		{Label: "Spent", Value: cli.FormatCompactCurrency(tot.Spent),
			Delta: cli.FormatPercentValue(tot.SpentPct) + " of budget", DeltaColor: t.SpendColor(tot.SpentPct.InexactFloat64())},
		{Label: "Conversions", Value: cli.FormatNumber(tot.Conversions), Footer: "CPA $" + tot.CPA.StringFixed(2)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Campaigns by Budget", a.campaignTableBody(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) campaignTableBody(innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.campaigns) == 0 {
		return dimStyle.Render("No campaigns match the current filter  [0] clear")
	}

	const fixedW = 10 + 10 + 12 + 23 + 8 + 6 + 7
	nameW := max(innerW-fixedW, 16)
	format := fmt.Sprintf("%%-%ds %%-10s %%-10s %%-11s %%10s %%6s ", nameW)

	var body strings.Builder
	body.WriteString(headStyle.Render(fmt.Sprintf(format+"%7s", "Campaign", "Platform", "Status", "Ends", "Budget", "ROAS", "Spent")))
	body.WriteString("\n")
	for _, c := range a.campaigns {
		pct := pipeline.Percent(c.Spent, c.Budget)
		line := fmt.Sprintf(format,
			truncStr(c.Name, nameW),
			c.Platform,
			c.Status,
			cli.FormatDate(c.End),
			cli.FormatCompactCurrency(c.Budget),
			c.ROAS.StringFixed(1)+"x",
		)
		body.WriteString(rowStyle.Render(line))
		body.WriteString(lipgloss.NewStyle().Foreground(t.SpendColor(pct.InexactFloat64())).Background(t.Surface).
			Render(fmt.Sprintf("%7s", cli.FormatPercentValue(pct))))
		body.WriteString("\n")
	}
	body.WriteString(dimStyle.Render("[p] platform  [s] status  [a] all markets  [0] clear"))
	return body.String()
}

// statusBreakdown summarizes campaigns per status, e.g. "4 active · 1 paused".
func statusBreakdown(campaigns []model.Campaign) string {
	counts := make(map[model.CampaignStatus]int, len(model.Statuses))
	for _, c := range campaigns {
		counts[c.Status]++
	}
	var parts []string
	for _, st := range model.Statuses {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	return strings.Join(parts, " · ")
}
