package pipeline

import (
	"testing"

	"github.com/theirongolddev/adpulse/internal/dataset"
	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductTotals(t *testing.T) {
	s := ProductTotals(dataset.Builtin())

	assert.True(t, s.CategoryRevenue.Equal(dec("4530000")), s.CategoryRevenue.String())
	assert.True(t, s.CategoryShare.Equal(dec("100")), s.CategoryShare.String())
	assert.Equal(t, "Enterprise", s.LeadCategory)
	assert.True(t, s.PartnerRevenue.Equal(dec("1150000")), s.PartnerRevenue.String())
	assert.Equal(t, "Partner C", s.TopPartner)
	assert.True(t, s.CompetitorShare.Equal(dec("100")))
	assert.True(t, s.SalesShare.Equal(dec("100")))
	assert.True(t, s.ReasonShare.Equal(dec("100")))
	assert.True(t, s.LicenseShare.Equal(dec("100")))
	assert.True(t, s.BlendedAOV.Equal(dec("158.49")), s.BlendedAOV.String())
	assert.True(t, s.RecoveredPct.Equal(dec("17.3")), s.RecoveredPct.String())
}

func TestProductTotalsConservesRows(t *testing.T) {
	ds := dataset.Builtin()
	totals, err := AggregateOf(ds.Categories)
	require.NoError(t, err)

	grand := dec("0")
	for _, c := range ds.Categories {
		for _, v := range c.Record() {
			grand = grand.Add(v)
		}
	}
	assert.True(t, totals.Grand().Equal(grand))
	assert.Equal(t, len(ds.Categories), totals.Count)
}

func TestProductTotalsEmpty(t *testing.T) {
	s := ProductTotals(&model.Dataset{})
	assert.True(t, s.CategoryRevenue.IsZero())
	assert.True(t, s.BlendedAOV.IsZero())
	assert.Empty(t, s.LeadCategory)
	assert.Empty(t, s.TopPartner)
}

func TestConversionLines(t *testing.T) {
	lines := ConversionLines(dataset.Conversions())
	require.Len(t, lines, 3)
	assert.Equal(t, "Home Products", lines[0].Line)
	assert.Equal(t, "Mobile Security", lines[2].Line)

	home := lines[0]
	require.Len(t, home.Periods, 3)
	assert.True(t, home.Latest().Equal(dec("4.8")))
	assert.True(t, home.Change().Equal(dec("0.6")), home.Change().String())
	assert.Equal(t, []float64{4.2, 4.5, 4.8}, home.Rates())

	assert.True(t, ConversionLine{}.Latest().IsZero())
	assert.True(t, ConversionLine{}.Change().IsZero())
	assert.Empty(t, ConversionLines(nil))
}
