package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordAcceptsNumericKinds(t *testing.T) {
	raw := map[string]any{
		"allocated": int64(350000),
		"spent":     280000.5,
		"remaining": "69999.5",
		"channel":   "Paid Search",
	}

	rec, err := ParseRecord(raw, "allocated", "spent", "remaining")
	require.NoError(t, err)

	assert.True(t, rec["allocated"].Equal(decimal.NewFromInt(350000)))
	assert.True(t, rec["spent"].Equal(decimal.RequireFromString("280000.5")))
	assert.True(t, rec["remaining"].Equal(decimal.RequireFromString("69999.5")))
	assert.Equal(t, []string{"allocated", "remaining", "spent"}, rec.Fields())
}

func TestParseRecordMissingField(t *testing.T) {
	_, err := ParseRecord(map[string]any{"spent": int64(1)}, "allocated", "spent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "allocated", recErr.Field)
}

func TestParseRecordRejectsNonNumeric(t *testing.T) {
	cases := map[string]any{
		"text":  "lots",
		"bool":  true,
		"nan":   math.NaN(),
		"inf":   math.Inf(1),
		"slice": []any{int64(1)},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecord(map[string]any{"spent": v}, "spent")
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestRecordErrorMessage(t *testing.T) {
	err := &RecordError{Source: "campaign", Index: 2, Field: "budget", Reason: "is missing"}
	assert.Equal(t, `invalid record campaign[2]: field "budget" is missing`, err.Error())
}

func TestTimeSeriesPointValidate(t *testing.T) {
	good := TimeSeriesPoint{
		Period:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		NewUsers:          52000,
		Revenue:           decimal.NewFromInt(2600000),
		CPA:               decimal.NewFromInt(16),
		LTV:               decimal.NewFromInt(110),
		SubscriptionShare: decimal.RequireFromString("0.58"),
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.SubscriptionShare = decimal.RequireFromString("1.2")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRecord)

	bad = good
	bad.NewUsers = -1
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRecord)
}

func TestParseEnums(t *testing.T) {
	c, err := ParseCountry("Thailand")
	require.NoError(t, err)
	assert.Equal(t, Thailand, c)

	c, err = ParseCountry("ALL")
	require.NoError(t, err)
	assert.Equal(t, CountryAll, c)

	_, err = ParseCountry("atlantis")
	assert.Error(t, err)

	p, err := ParsePlatform("shopee")
	require.NoError(t, err)
	assert.Equal(t, PlatformShopee, p)

	s, err := ParseStatus("Scheduled")
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, s)

	tr, err := ParseTrend("neutral")
	require.NoError(t, err)
	assert.Equal(t, TrendStable, tr)
}
