package forecast

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

// Classify compares current against previous for a metric. For lower-is-better
// metrics a decrease is reported as TrendUp.
func Classify(metric model.MetricKind, current, previous decimal.Decimal) model.Trend {
	cmp := current.Cmp(previous)
	if metric.LowerIsBetter() {
		cmp = -cmp
	}
	switch {
	case cmp > 0:
		return model.TrendUp
	case cmp < 0:
		return model.TrendDown
	default:
		return model.TrendStable
	}
}

// Summarize builds one MetricSummary per KPI from the last two historical
// points and the country's published targets.
func Summarize(c model.CountryData) ([]model.MetricSummary, error) {
	n := len(c.Historical)
	if n < 2 {
		return nil, fmt.Errorf("%s: summary needs at least 2 historical points, got %d: %w",
			c.ID, n, model.ErrPreconditionViolation)
	}
	curr, prev := c.Historical[n-1], c.Historical[n-2]

	out := make([]model.MetricSummary, 0, len(model.AllMetrics))
	for _, m := range model.AllMetrics {
		tgt := c.Targets[m]
		s := model.MetricSummary{
			Metric:   m,
			Name:     m.String(),
			Current:  curr.Value(m),
			Previous: prev.Value(m),
			Target:   tgt.Target,
			Forecast: tgt.Forecast,
			Unit:     m.Unit(),
		}
		s.Trend = Classify(m, s.Current, s.Previous)
		out = append(out, s)
	}
	return out, nil
}
