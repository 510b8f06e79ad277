package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MetricKind names one of the tracked KPIs.
type MetricKind int

// Tracked KPIs, in display order.
const (
	MetricNewUsers MetricKind = iota
	MetricRevenue
	MetricCPA
	MetricLTV
	MetricSubscriptionShare
)

// AllMetrics lists every KPI in display order.
var AllMetrics = []MetricKind{
	MetricNewUsers,
	MetricRevenue,
	MetricCPA,
	MetricLTV,
	MetricSubscriptionShare,
}

var metricInfo = map[MetricKind]struct {
	key, name, unit string
}{
	MetricNewUsers:          {"new_users", "New Net Users", ""},
	MetricRevenue:           {"revenue", "Revenue", "$"},
	MetricCPA:               {"cpa", "CPA", "$"},
	MetricLTV:               {"ltv", "LTV", "$"},
	MetricSubscriptionShare: {"subscription_share", "Subscription Share", "%"},
}

// Key returns the snake_case identifier used in files and URLs.
func (m MetricKind) Key() string { return metricInfo[m].key }

// String returns the display name.
func (m MetricKind) String() string {
	if info, ok := metricInfo[m]; ok {
		return info.name
	}
	return fmt.Sprintf("MetricKind(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m MetricKind) MarshalText() ([]byte, error) { return []byte(m.Key()), nil }

// Unit returns "$" for currency, "%" for fractions and "" for counts.
func (m MetricKind) Unit() string { return metricInfo[m].unit }

// LowerIsBetter reports whether a decrease is an improvement.
func (m MetricKind) LowerIsBetter() bool { return m == MetricCPA }

// ParseMetric looks a metric up by key.
func ParseMetric(s string) (MetricKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range AllMetrics {
		if m.Key() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

// Trend is the direction of a metric relative to its previous value,
// expressed in terms of improvement.
type Trend int

// Trend values. TrendStable is the zero value.
const (
	TrendStable Trend = iota
	TrendUp
	TrendDown
)

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "stable"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Trend) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseTrend accepts "up", "down", "stable" and "neutral".
func ParseTrend(s string) (Trend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return TrendUp, nil
	case "down":
		return TrendDown, nil
	case "stable", "neutral", "":
		return TrendStable, nil
	}
	return TrendStable, fmt.Errorf("unknown trend %q", s)
}

// MetricSummary is the headline card for one KPI.
type MetricSummary struct {
	Metric   MetricKind      `json:"metric"`
	Name     string          `json:"name"`
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Target   decimal.Decimal `json:"target"`
	Forecast decimal.Decimal `json:"forecast"`
	Trend    Trend           `json:"trend"`
	Unit     string          `json:"unit"`
}

// ChangePercent returns the relative change from previous to current in percent,
// or zero when previous is zero.
func (s MetricSummary) ChangePercent() decimal.Decimal {
	if s.Previous.IsZero() {
		return decimal.Zero
	}
	return s.Current.Sub(s.Previous).Div(s.Previous).Mul(decimal.NewFromInt(100))
}

// TargetProgress returns current/target as a fraction, or zero without a target.
func (s MetricSummary) TargetProgress() decimal.Decimal {
	if s.Target.IsZero() {
		return decimal.Zero
	}
	return s.Current.Div(s.Target)
}
