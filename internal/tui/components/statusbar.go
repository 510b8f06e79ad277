package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/adpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Status is what the bottom bar reports about the loaded dataset.
type Status struct {
	Source      string
	CacheHit    bool
	LoadSeconds float64
	SpentPct    decimal.Decimal
	Refreshing  bool
	AutoRefresh bool
	Err         string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := " [?]help  [n]ext market  [r]efresh  [q]uit"

	var right strings.Builder
	switch {
	case st.Err != "":
		right.WriteString(warn.Render("load failed: " + st.Err))
	case st.Refreshing:
		right.WriteString(dim.Render("refreshing… "))
	}
	if width >= 110 {
		right.WriteString(CompactSpendBar(" Budget", st.SpentPct, 22))
		right.WriteString(dim.Render("  "))
	}
	src := st.Source
	if st.CacheHit {
		src += " (cached)"
	}
	right.WriteString(dim.Render(fmt.Sprintf("%s · %.2fs", src, st.LoadSeconds)))
	if st.AutoRefresh {
		right.WriteString(dim.Render(" · auto"))
	}
	right.WriteString(dim.Render(" "))

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right.String()), 0)
	return style.Render(left) +
		style.Render(strings.Repeat(" ", padding)) +
		right.String()
}
