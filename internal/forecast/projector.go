package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultHorizon is the number of monthly periods projected when none is given.
const DefaultHorizon = 6

// Policy holds the per-period adjustments for the dependent metrics.
// Only new users are regression-fitted; the rest drift linearly toward a bound.
type Policy struct {
	CPAFloor     decimal.Decimal
	CPADecay     decimal.Decimal
	LTVCeiling   decimal.Decimal
	LTVGrowth    decimal.Decimal
	ShareCeiling decimal.Decimal
	ShareGrowth  decimal.Decimal
}

// DefaultPolicy returns the shipped adjustment constants.
func DefaultPolicy() Policy {
	return Policy{
		CPAFloor:     decimal.NewFromInt(15),
		CPADecay:     decimal.RequireFromString("0.3"),
		LTVCeiling:   decimal.NewFromInt(120),
		LTVGrowth:    decimal.RequireFromString("0.8"),
		ShareCeiling: decimal.RequireFromString("0.65"),
		ShareGrowth:  decimal.RequireFromString("0.01"),
	}
}

// Forecast projects series forward by horizon months using DefaultPolicy.
func Forecast(series []model.TimeSeriesPoint, horizon int) ([]model.ForecastPoint, error) {
	return Project(series, horizon, DefaultPolicy())
}

// Project extends a historical series by horizon monthly periods.
//
// New users follow an OLS line over the point indices. Revenue holds the last
// observed revenue per new user. CPA, LTV and subscription share move by a fixed
// step per period and are clamped at the policy bounds. The series must have at
// least two chronologically increasing points and a non-zero final new-user count.
func Project(series []model.TimeSeriesPoint, horizon int, policy Policy) ([]model.ForecastPoint, error) {
	if err := validateSeries(series); err != nil {
		return nil, err
	}
	if horizon < 0 {
		return nil, fmt.Errorf("negative horizon %d: %w", horizon, model.ErrPreconditionViolation)
	}
	if horizon == 0 {
		return []model.ForecastPoint{}, nil
	}

	ys := make([]float64, len(series))
	for i, p := range series {
		ys[i] = float64(p.NewUsers)
	}
	line, err := FitLine(ys)
	if err != nil {
		return nil, err
	}

	last := series[len(series)-1]
	n := len(series)
	base := monthStart(last.Period)

	out := make([]model.ForecastPoint, 0, horizon)
	for k := 1; k <= horizon; k++ {
		step := decimal.NewFromInt(int64(k))

		users := int64(math.Round(line.Predict(float64(n - 1 + k))))
		if users < 0 {
			users = 0
		}

		revenue := decimal.NewFromInt(users).
			Mul(last.Revenue).
			Div(decimal.NewFromInt(last.NewUsers)).
			Round(0)

		out = append(out, model.ForecastPoint{
			TimeSeriesPoint: model.TimeSeriesPoint{
				Period:            base.AddDate(0, k, 0),
				NewUsers:          users,
				Revenue:           revenue,
				CPA:               decimal.Max(policy.CPAFloor, last.CPA.Sub(policy.CPADecay.Mul(step))),
				LTV:               decimal.Min(policy.LTVCeiling, last.LTV.Add(policy.LTVGrowth.Mul(step))),
				SubscriptionShare: decimal.Min(policy.ShareCeiling, last.SubscriptionShare.Add(policy.ShareGrowth.Mul(step))),
			},
			Projected: true,
		})
	}
	return out, nil
}

func validateSeries(series []model.TimeSeriesPoint) error {
	if len(series) < 2 {
		return fmt.Errorf("forecast needs at least 2 historical points, got %d: %w",
			len(series), model.ErrPreconditionViolation)
	}
	for i, p := range series {
		if err := p.Validate(); err != nil {
			var recErr *model.RecordError
			if errors.As(err, &recErr) {
				recErr.Source = "series"
				recErr.Index = i
			}
			return err
		}
		if i > 0 && !p.Period.After(series[i-1].Period) {
			return fmt.Errorf("series point %d (%s) does not follow %s: %w",
				i, p.Period.Format("2006-01-02"), series[i-1].Period.Format("2006-01-02"),
				model.ErrPreconditionViolation)
		}
	}
	if series[len(series)-1].NewUsers == 0 {
		return fmt.Errorf("last observed new users is 0, revenue per user undefined: %w",
			model.ErrPreconditionViolation)
	}
	return nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
