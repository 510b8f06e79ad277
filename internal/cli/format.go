// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	hundred  = decimal.NewFromInt(100)
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatCompact formats a value with a K/M/B suffix.
// e.g., 52000 -> "52.0K", 2600000 -> "2.6M"
func FormatCompact(d decimal.Decimal) string {
	abs := d.Abs()
	switch {
	case abs.GreaterThanOrEqual(billion):
		return d.Div(billion).StringFixed(1) + "B"
	case abs.GreaterThanOrEqual(million):
		return d.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return d.Div(thousand).StringFixed(1) + "K"
	default:
		return d.Round(0).String()
	}
}

// FormatCurrency formats a USD amount. Whole dollars with separators from
// $1,000 up, cents below.
func FormatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatCurrency(d.Neg())
	}
	if d.GreaterThanOrEqual(thousand) {
		return "$" + FormatNumber(d.Round(0).IntPart())
	}
	return "$" + d.StringFixed(2)
}

// FormatCompactCurrency is FormatCompact with a dollar sign.
func FormatCompactCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + FormatCompact(d.Neg())
	}
	return "$" + FormatCompact(d)
}

// FormatShare formats a 0-1 fraction as a percentage string.
// e.g., 0.58 -> "58.0%"
func FormatShare(d decimal.Decimal) string {
	return d.Mul(hundred).StringFixed(1) + "%"
}

// FormatPercentValue formats a value already expressed in percent.
// e.g., 78 -> "78%", 3.2 -> "3.2%"
func FormatPercentValue(d decimal.Decimal) string {
	return d.String() + "%"
}

// FormatChange formats a signed percent change with one decimal.
func FormatChange(pct decimal.Decimal) string {
	if pct.IsNegative() {
		return pct.StringFixed(1) + "%"
	}
	return "+" + pct.StringFixed(1) + "%"
}

// FormatPoints formats a signed change in percentage points, e.g. "+0.6 pts".
func FormatPoints(d decimal.Decimal) string {
	s := d.StringFixed(1) + " pts"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// FormatDelta formats the difference between two currency amounts with sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatCurrency(delta.Neg())
	}
	return "+" + FormatCurrency(delta)
}

// FormatMetric formats a KPI value according to its unit.
func FormatMetric(m model.MetricKind, v decimal.Decimal) string {
	switch m {
	case model.MetricNewUsers:
		return FormatNumber(v.Round(0).IntPart())
	case model.MetricSubscriptionShare:
		return FormatShare(v)
	case model.MetricRevenue:
		return FormatCurrency(v)
	default:
		return "$" + v.StringFixed(2)
	}
}

// FormatPeriod renders a series period as "Mar 2025".
func FormatPeriod(t time.Time) string {
	return t.Format("Jan 2006")
}

// FormatDate renders a calendar date as "2025-03-01".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// TrendArrow returns a one-character indicator for a trend.
func TrendArrow(t model.Trend) string {
	switch t {
	case model.TrendUp:
		return "▲"
	case model.TrendDown:
		return "▼"
	default:
		return "●"
	}
}

// FormatTrend renders an arrow with its label, e.g. "▲ up".
func FormatTrend(t model.Trend) string {
	return fmt.Sprintf("%s %s", TrendArrow(t), t)
}
