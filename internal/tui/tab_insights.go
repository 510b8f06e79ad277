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

func (a App) renderInsightsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	tot := a.products
	cards := []components.Metric{
		{Label: "Category Revenue", Value: cli.FormatCompactCurrency(tot.CategoryRevenue), Footer: "lead: " + orDash(tot.LeadCategory)},
		{Label: "Partner Revenue", Value: cli.FormatCompactCurrency(tot.PartnerRevenue), Footer: "top: " + orDash(tot.TopPartner)},
		{Label: "Blended AOV", Value: "$" + tot.BlendedAOV.StringFixed(2),
			Footer: fmt.Sprintf("%d products", len(a.data.Products))},
		{Label: "Carts Recovered", Value: cli.FormatPercentValue(tot.RecoveredPct),
			Delta: cli.FormatPercentValue(a.data.Cart.AbandonmentRate) + " abandoned", DeltaColor: t.Orange},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	pair := func(leftTitle, leftBody, rightTitle, rightBody string) {
		if a.isCompactLayout() {
			b.WriteString(components.ContentCard(leftTitle, leftBody, cw))
			b.WriteString("\n")
			b.WriteString(components.ContentCard(rightTitle, rightBody, cw))
			b.WriteString("\n")
			return
		}
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard(leftTitle, leftBody, widths[0]),
			components.ContentCard(rightTitle, rightBody, widths[1]),
		}))
		b.WriteString("\n")
	}

	halfW := components.CardInnerWidth(cw)
	if !a.isCompactLayout() {
		halfW = components.CardInnerWidth(components.LayoutRow(cw, 2)[0])
	}
	pair("Product Categories", a.categoryBody(halfW), "Storefront Conversion", a.conversionBody(halfW))
	pair("Cart Abandonment", a.cartBody(halfW), "Market Position", a.marketBody(halfW))
	return b.String()
}

func (a App) categoryBody(innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	leadStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.data.Categories) == 0 {
		return dimStyle.Render("No category data")
	}
	format := "%-20s %9s %8s %7s"
	var body strings.Builder
	body.WriteString(headStyle.Render(truncStr(fmt.Sprintf(format, "Category", "Revenue", "Growth", "Share"), innerW)))
	body.WriteString("\n")
	for _, c := range a.data.Categories {
		style := rowStyle
		if c.Name == a.products.LeadCategory {
			style = leadStyle
		}
		line := fmt.Sprintf(format, truncStr(c.Name, 20), cli.FormatCompactCurrency(c.Revenue),
			cli.FormatChange(c.Growth), cli.FormatPercentValue(c.MarketShare))
		body.WriteString(style.Render(truncStr(line, innerW)))
		body.WriteString("\n")
	}
	body.WriteString(dimStyle.Render(truncStr(fmt.Sprintf(format, "Total",
		cli.FormatCompactCurrency(a.products.CategoryRevenue), "", cli.FormatPercentValue(a.products.CategoryShare)), innerW)))
	return body.String()
}

func (a App) conversionBody(innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := pipeline.ConversionLines(a.data.Conversions)
	if len(lines) == 0 {
		return labelStyle.Render("No conversion data")
	}
	var body strings.Builder
	for i, l := range lines {
		if i > 0 {
			body.WriteString("\n")
		}
		trend := model.TrendStable
		switch {
		case l.Change().IsPositive():
			trend = model.TrendUp
		case l.Change().IsNegative():
			trend = model.TrendDown
		}
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", truncStr(l.Line, 20))))
		body.WriteString(components.Sparkline(l.Rates(), t.TrendColor(trend)))
		body.WriteString(valueStyle.Render(fmt.Sprintf("  %s ", cli.FormatPercentValue(l.Latest()))))
		body.WriteString(lipgloss.NewStyle().Foreground(t.TrendColor(trend)).Background(t.Surface).
			Render(cli.FormatPoints(l.Change())))
		body.WriteString("\n")
	}
	if len(a.data.Products) > 0 {
		body.WriteString("\n")
		for _, p := range a.data.Products {
			body.WriteString(labelStyle.Render(truncStr(fmt.Sprintf("%-20s %6s conv  $%s AOV  %s of sales",
				truncStr(p.Name, 20), cli.FormatPercentValue(p.ConversionRate), p.AOV.StringFixed(2),
				cli.FormatPercentValue(p.SalesShare)), innerW)))
			body.WriteString("\n")
		}
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func (a App) cartBody(innerW int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	cart := a.data.Cart
	if len(cart.Reasons) == 0 && cart.AbandonmentRate.IsZero() {
		return labelStyle.Render("No cart data")
	}
	var body strings.Builder
	body.WriteString(labelStyle.Render("Abandonment "))
	body.WriteString(valueStyle.Render(cli.FormatPercentValue(cart.AbandonmentRate)))
	body.WriteString(labelStyle.Render("   Recovery "))
	body.WriteString(valueStyle.Render(cli.FormatPercentValue(cart.RecoveryRate)))
	body.WriteString("\n\n")

	const labelW = 18
	barW := max(innerW-labelW-6, 10)
	for _, r := range cart.Reasons {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(r.Reason, labelW))))
		body.WriteString(components.ProgressBar(r.Share.InexactFloat64()/100, barW))
		body.WriteString("\n")
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func (a App) marketBody(innerW int) string {
	t := theme.Active
	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var body strings.Builder
	section := func(title, format string, head []any, rows [][]any) {
		if len(rows) == 0 {
			return
		}
		if body.Len() > 0 {
			body.WriteString("\n")
		}
		body.WriteString(headStyle.Render(truncStr(fmt.Sprintf("%-16s "+format, append([]any{title}, head...)...), innerW)))
		body.WriteString("\n")
		for _, r := range rows {
			body.WriteString(rowStyle.Render(truncStr(fmt.Sprintf("%-16s "+format, r...), innerW)))
			body.WriteString("\n")
		}
	}

	comp := make([][]any, 0, len(a.data.Competitors))
	for _, c := range a.data.Competitors {
		comp = append(comp, []any{truncStr(c.Name, 16), cli.FormatPercentValue(c.MarketShare),
			c.PriceIndex.String(), c.Satisfaction.StringFixed(1)})
	}
	section("Vendor", "%7s %6s %6s", []any{"Share", "Price", "CSAT"}, comp)

	lic := make([][]any, 0, len(a.data.Licenses))
	for _, l := range a.data.Licenses {
		lic = append(lic, []any{truncStr(l.Tier, 16), cli.FormatPercentValue(l.RenewalRate),
			fmt.Sprintf("%dd", l.DaysToRenew), cli.FormatPercentValue(l.Share)})
	}
	section("License", "%7s %6s %6s", []any{"Renew", "Days", "Base"}, lic)

	part := make([][]any, 0, len(a.data.Partners))
	for _, p := range a.data.Partners {
		part = append(part, []any{truncStr(p.Name, 16), cli.FormatCompactCurrency(p.Revenue),
			cli.FormatChange(p.Growth), p.Performance.String()})
	}
	section("Partner", "%7s %6s %6s", []any{"Rev", "Growth", "Perf"}, part)

	if body.Len() == 0 {
		return dimStyle.Render("No market data")
	}
	return strings.TrimSuffix(body.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
