package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 2600000: "2,600,000", -52000: "-52,000"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2600000", "$2,600,000"},
		{"1000", "$1,000"},
		{"15.7", "$15.70"},
		{"0", "$0.00"},
		{"-20.5", "-$20.50"},
	}
	for _, c := range cases {
		if got := FormatCurrency(d(c.in)); got != c.want {
			t.Fatalf("FormatCurrency(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct{ in, want string }{
		{"52000", "52.0K"},
		{"2600000", "2.6M"},
		{"1500000000", "1.5B"},
		{"950", "950"},
	}
	for _, c := range cases {
		if got := FormatCompact(d(c.in)); got != c.want {
			t.Fatalf("FormatCompact(%s) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := FormatCompactCurrency(d("2600000")); got != "$2.6M" {
		t.Fatalf("FormatCompactCurrency = %q", got)
	}
}

func TestFormatShareAndPercent(t *testing.T) {
	if got := FormatShare(d("0.58")); got != "58.0%" {
		t.Fatalf("FormatShare = %q", got)
	}
	if got := FormatPercentValue(d("78")); got != "78%" {
		t.Fatalf("FormatPercentValue = %q", got)
	}
	if got := FormatChange(d("28.395")); got != "+28.4%" {
		t.Fatalf("FormatChange = %q", got)
	}
	if got := FormatChange(d("-5.88")); got != "-5.9%" {
		t.Fatalf("FormatChange = %q", got)
	}
	if got := FormatDelta(d("16"), d("17")); got != "-$1.00" {
		t.Fatalf("FormatDelta = %q", got)
	}
	for in, want := range map[string]string{"0.6": "+0.6 pts", "-1.24": "-1.2 pts", "0": "0.0 pts"} {
		if got := FormatPoints(d(in)); got != want {
			t.Fatalf("FormatPoints(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMetric(t *testing.T) {
	cases := []struct {
		m    model.MetricKind
		v    string
		want string
	}{
		{model.MetricNewUsers, "52000", "52,000"},
		{model.MetricRevenue, "2600000", "$2,600,000"},
		{model.MetricCPA, "16", "$16.00"},
		{model.MetricLTV, "110.8", "$110.80"},
		{model.MetricSubscriptionShare, "0.58", "58.0%"},
	}
	for _, c := range cases {
		if got := FormatMetric(c.m, d(c.v)); got != c.want {
			t.Fatalf("FormatMetric(%s, %s) = %q, want %q", c.m, c.v, got, c.want)
		}
	}
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)
	if got := FormatPeriod(ts); got != "Mar 2025" {
		t.Fatalf("FormatPeriod = %q", got)
	}
	if got := FormatDate(ts); got != "2025-03-18" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatDate(time.Time{}); got != "-" {
		t.Fatalf("FormatDate(zero) = %q", got)
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Trend"},
		Rows: [][]string{
			{"CPA", "▲ up"},
			{"---"},
			{"Revenue", "▼ down"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{1, 2, 3, 4})
	if got != "▁▃▅█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("empty sparkline should be empty")
	}
	if flat := RenderSparkline([]float64{5, 5}); flat != "▁▁" {
		t.Fatalf("flat sparkline = %q", flat)
	}
}

func TestRenderProgressBar(t *testing.T) {
	got := RenderProgressBar(d("80"), 10)
	if !strings.Contains(got, "████████░░") || !strings.Contains(got, "80%") {
		t.Fatalf("RenderProgressBar = %q", got)
	}
	over := RenderProgressBar(d("150"), 4)
	if !strings.Contains(over, "████") {
		t.Fatalf("over-budget bar should be full: %q", over)
	}
}
