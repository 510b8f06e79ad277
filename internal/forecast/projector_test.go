package forecast

import (
	"testing"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// indonesiaSeries mirrors the shipped Indonesia history.
func indonesiaSeries(t *testing.T) []model.TimeSeriesPoint {
	t.Helper()
	rows := []struct {
		date    string
		users   int64
		revenue string
		cpa     string
		ltv     string
		share   string
	}{
		{"2024-03-15", 28000, "840000", "20", "90", "0.45"},
		{"2024-06-15", 32000, "1120000", "19", "95", "0.48"},
		{"2024-09-15", 38000, "1520000", "18", "100", "0.52"},
		{"2024-12-15", 45000, "2025000", "17", "105", "0.55"},
		{"2025-03-18", 52000, "2600000", "16", "110", "0.58"},
	}
	out := make([]model.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		out[i] = model.TimeSeriesPoint{
			Period:            mustDate(t, r.date),
			NewUsers:          r.users,
			Revenue:           dec(r.revenue),
			CPA:               dec(r.cpa),
			LTV:               dec(r.ltv),
			SubscriptionShare: dec(r.share),
		}
	}
	return out
}

func TestForecastReturnsHorizonPoints(t *testing.T) {
	series := indonesiaSeries(t)
	for _, horizon := range []int{1, 3, DefaultHorizon, 12} {
		got, err := Forecast(series, horizon)
		require.NoError(t, err)
		assert.Len(t, got, horizon)
	}
}

func TestForecastPeriodsContinueMonthly(t *testing.T) {
	series := indonesiaSeries(t)
	got, err := Forecast(series, DefaultHorizon)
	require.NoError(t, err)

	last := series[len(series)-1].Period
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got[0].Period)
	assert.True(t, got[0].Period.After(last))
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1].Period, got[i].Period
		assert.True(t, cur.After(prev), "period %d not after previous", i)
		assert.Equal(t, prev.AddDate(0, 1, 0), cur, "gap between periods %d and %d", i-1, i)
	}
	for _, p := range got {
		assert.True(t, p.Projected)
	}
}

func TestForecastNewUsersFollowLinearFit(t *testing.T) {
	// Indonesia: slope 6100, intercept 26800.
	got, err := Forecast(indonesiaSeries(t), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(57300), got[0].NewUsers)
	assert.Equal(t, int64(63400), got[1].NewUsers)
	assert.Equal(t, int64(69500), got[2].NewUsers)
}

func TestForecastRevenueHoldsLastRatio(t *testing.T) {
	got, err := Forecast(indonesiaSeries(t), 2)
	require.NoError(t, err)

	// 2,600,000 / 52,000 = 50 per new user.
	assert.True(t, got[0].Revenue.Equal(decimal.NewFromInt(57300*50)), "got %s", got[0].Revenue)
	assert.True(t, got[1].Revenue.Equal(decimal.NewFromInt(63400*50)), "got %s", got[1].Revenue)
}

func TestForecastCPADecaysToFloor(t *testing.T) {
	got, err := Forecast(indonesiaSeries(t), 6)
	require.NoError(t, err)

	want := []string{"15.7", "15.4", "15.1", "15", "15", "15"}
	floor := DefaultPolicy().CPAFloor
	for i, p := range got {
		assert.True(t, p.CPA.Equal(dec(want[i])), "cpa[%d] = %s, want %s", i, p.CPA, want[i])
		assert.False(t, p.CPA.LessThan(floor))
		if i > 0 {
			assert.False(t, p.CPA.GreaterThan(got[i-1].CPA), "cpa increased at %d", i)
		}
	}
}

func TestForecastLTVGrowsToCeiling(t *testing.T) {
	got, err := Forecast(indonesiaSeries(t), 20)
	require.NoError(t, err)

	assert.True(t, got[0].LTV.Equal(dec("110.8")))
	assert.True(t, got[1].LTV.Equal(dec("111.6")))

	ceiling := DefaultPolicy().LTVCeiling
	for i, p := range got {
		assert.False(t, p.LTV.GreaterThan(ceiling), "ltv[%d] = %s above ceiling", i, p.LTV)
		if i > 0 {
			assert.False(t, p.LTV.LessThan(got[i-1].LTV), "ltv decreased at %d", i)
		}
	}
	assert.True(t, got[len(got)-1].LTV.Equal(ceiling))
}

func TestForecastShareCapped(t *testing.T) {
	got, err := Forecast(indonesiaSeries(t), 10)
	require.NoError(t, err)

	assert.True(t, got[0].SubscriptionShare.Equal(dec("0.59")))
	assert.True(t, got[6].SubscriptionShare.Equal(dec("0.65")))
	assert.True(t, got[9].SubscriptionShare.Equal(dec("0.65")))
}

func TestForecastCustomPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.CPAFloor = dec("10")
	policy.CPADecay = dec("1")

	got, err := Project(indonesiaSeries(t), 3, policy)
	require.NoError(t, err)
	assert.True(t, got[2].CPA.Equal(dec("13")))
}

func TestForecastPreconditions(t *testing.T) {
	series := indonesiaSeries(t)

	_, err := Forecast(series[:1], 6)
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)

	_, err = Forecast(nil, 6)
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)

	zeroed := append([]model.TimeSeriesPoint(nil), series...)
	zeroed[len(zeroed)-1].NewUsers = 0
	_, err = Forecast(zeroed, 6)
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)

	unordered := append([]model.TimeSeriesPoint(nil), series...)
	unordered[1], unordered[2] = unordered[2], unordered[1]
	_, err = Forecast(unordered, 6)
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)

	_, err = Forecast(series, -1)
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)
}

func TestForecastInvalidPoint(t *testing.T) {
	series := indonesiaSeries(t)
	series[2].Revenue = dec("-1")

	_, err := Forecast(series, 6)
	assert.ErrorIs(t, err, model.ErrInvalidRecord)

	var recErr *model.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Index)
	assert.Equal(t, "revenue", recErr.Field)
}

func TestForecastHorizonZero(t *testing.T) {
	got, err := Forecast(indonesiaSeries(t), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestForecastRoundTripYieldsNothingExtra(t *testing.T) {
	first, err := Forecast(indonesiaSeries(t), DefaultHorizon)
	require.NoError(t, err)

	again, err := Forecast(model.Observed(first), 0)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestForecastIsDeterministic(t *testing.T) {
	series := indonesiaSeries(t)
	a, err := Forecast(series, DefaultHorizon)
	require.NoError(t, err)
	b, err := Forecast(series, DefaultHorizon)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Period, b[i].Period)
		assert.Equal(t, a[i].NewUsers, b[i].NewUsers)
		assert.True(t, a[i].Revenue.Equal(b[i].Revenue))
		assert.True(t, a[i].CPA.Equal(b[i].CPA))
	}
}

func TestForecastDecliningSeriesClampsAtZero(t *testing.T) {
	series := []model.TimeSeriesPoint{
		{Period: mustDate(t, "2025-01-01"), NewUsers: 300, Revenue: dec("3000"), CPA: dec("20"), LTV: dec("90"), SubscriptionShare: dec("0.4")},
		{Period: mustDate(t, "2025-02-01"), NewUsers: 100, Revenue: dec("1000"), CPA: dec("20"), LTV: dec("90"), SubscriptionShare: dec("0.4")},
	}
	got, err := Forecast(series, 3)
	require.NoError(t, err)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.NewUsers, int64(0))
		assert.False(t, p.Revenue.IsNegative())
	}
}

func TestFitLine(t *testing.T) {
	line, err := FitLine([]float64{1, 3, 5, 7})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, line.Slope, 1e-9)
	assert.InDelta(t, 1.0, line.Intercept, 1e-9)
	assert.InDelta(t, 9.0, line.Predict(4), 1e-9)

	_, err = FitLine([]float64{1})
	assert.ErrorIs(t, err, model.ErrPreconditionViolation)
}
