// Package model defines domain types for adpulse datasets, forecasts and metrics.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CountryID identifies a market.
type CountryID string

// Known markets. CountryAll is the zero value and matches every country in filters.
const (
	CountryAll  CountryID = ""
	Indonesia   CountryID = "indonesia"
	Thailand    CountryID = "thailand"
	Malaysia    CountryID = "malaysia"
	Philippines CountryID = "philippines"
	Singapore   CountryID = "singapore"
)

var countryNames = map[CountryID]string{
	Indonesia:   "Indonesia",
	Thailand:    "Thailand",
	Malaysia:    "Malaysia",
	Philippines: "Philippines",
	Singapore:   "Singapore",
}

// CountryOrder is the canonical display order for markets.
var CountryOrder = []CountryID{Indonesia, Thailand, Malaysia, Philippines, Singapore}

// String returns the display name.
func (c CountryID) String() string {
	if c == CountryAll {
		return "All"
	}
	if name, ok := countryNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseCountry accepts an identifier or display name, case-insensitively.
// "all" and "" map to CountryAll.
func ParseCountry(s string) (CountryID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return CountryAll, nil
	}
	id := CountryID(s)
	if _, ok := countryNames[id]; !ok {
		return CountryAll, fmt.Errorf("unknown country %q", s)
	}
	return id, nil
}

// TimeSeriesPoint is one observed monthly KPI record.
type TimeSeriesPoint struct {
	Period            time.Time       `json:"period"`
	NewUsers          int64           `json:"new_users"`
	Revenue           decimal.Decimal `json:"revenue"`
	CPA               decimal.Decimal `json:"cpa"`
	LTV               decimal.Decimal `json:"ltv"`
	SubscriptionShare decimal.Decimal `json:"subscription_share"` // fraction in [0,1]

	TotalActiveUsers int64 `json:"total_active_users,omitempty"`
	SubscribedUsers  int64 `json:"subscribed_users,omitempty"`
}

// Value returns the point's value for a metric.
func (p TimeSeriesPoint) Value(m MetricKind) decimal.Decimal {
	switch m {
	case MetricNewUsers:
		return decimal.NewFromInt(p.NewUsers)
	case MetricRevenue:
		return p.Revenue
	case MetricCPA:
		return p.CPA
	case MetricLTV:
		return p.LTV
	case MetricSubscriptionShare:
		return p.SubscriptionShare
	}
	return decimal.Zero
}

// Validate checks field ranges. Violations are reported as *RecordError.
func (p TimeSeriesPoint) Validate() error {
	field := ""
	reason := "must not be negative"
	switch {
	case p.Period.IsZero():
		field, reason = "period", "missing"
	case p.NewUsers < 0:
		field = "new_users"
	case p.Revenue.IsNegative():
		field = "revenue"
	case p.CPA.IsNegative():
		field = "cpa"
	case p.LTV.IsNegative():
		field = "ltv"
	case p.SubscriptionShare.IsNegative() || p.SubscriptionShare.GreaterThan(decimal.NewFromInt(1)):
		field, reason = "subscription_share", "must be within [0,1]"
	}
	if field == "" {
		return nil
	}
	return &RecordError{Source: "point", Index: -1, Field: field, Reason: reason}
}

// ForecastPoint is a projected record. It has the same shape as an observed point.
type ForecastPoint struct {
	TimeSeriesPoint
	Projected bool `json:"projected"`
}

// Observed strips the projection tag so forecast output can be fed back as history.
func Observed(points []ForecastPoint) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, len(points))
	for i, p := range points {
		out[i] = p.TimeSeriesPoint
	}
	return out
}

// MetricTarget holds the published target and forecast for one metric.
type MetricTarget struct {
	Target   decimal.Decimal `json:"target"`
	Forecast decimal.Decimal `json:"forecast"`
}

// CountryData is everything the dashboard knows about one market.
type CountryData struct {
	ID         CountryID
	Historical []TimeSeriesPoint
	Targets    map[MetricKind]MetricTarget
	Journey    []JourneyStage
}

// Latest returns the most recent historical point.
func (c CountryData) Latest() (TimeSeriesPoint, bool) {
	if len(c.Historical) == 0 {
		return TimeSeriesPoint{}, false
	}
	return c.Historical[len(c.Historical)-1], true
}
