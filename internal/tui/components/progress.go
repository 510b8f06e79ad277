package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// ProgressBar renders a 0-1 fraction as a block bar with its percentage.
// It is used for the loading screen and target progress.
func ProgressBar(frac float64, width int) string {
	t := theme.Active
	filled := max(0, min(int(frac*float64(width)), width))

	var barColor lipgloss.Color
	switch {
	case frac >= 0.8:
		barColor = t.AccentBright
	case frac >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", frac*100))
}

// BudgetBar renders a labelled spend bar for a whole-percent value, followed
// by the spent/allocated text. Over-budget values fill the bar in red.
func BudgetBar(label string, pct decimal.Decimal, detail string, labelW, barWidth int) string {
	t := theme.Active

	p := pct.InexactFloat64()
	color := t.SpendColor(p)
	frac := max(0, min(p/100, 1))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4s", pct.Round(0).String()+"%")) +
		spaceStyle.Render("  ") +
		detailStyle.Render(detail)
}

// CompactSpendBar renders a tiny status-bar-sized spend indicator.
func CompactSpendBar(label string, pct decimal.Decimal, width int) string {
	t := theme.Active

	p := pct.InexactFloat64()
	color := t.SpendColor(p)
	barW := max(width-lipgloss.Width(label)-6, 4)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		bar.ViewAs(max(0, min(p/100, 1))) +
		spaceStyle.Render(" ") +
		pctStyle.Render(pct.Round(0).String()+"%")
}
