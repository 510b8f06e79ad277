package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleDataset() *model.Dataset {
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }
	return &model.Dataset{
		Countries: map[model.CountryID]model.CountryData{
			model.Thailand: {
				ID: model.Thailand,
				Historical: []model.TimeSeriesPoint{
					{Period: day(1, 15), NewUsers: 100, Revenue: dec("1000.25"), CPA: dec("20"), LTV: dec("90"), SubscriptionShare: dec("0.4"), TotalActiveUsers: 900},
					{Period: day(2, 15), NewUsers: 120, Revenue: dec("1300"), CPA: dec("19.7"), LTV: dec("91"), SubscriptionShare: dec("0.41"), SubscribedUsers: 50},
				},
				Targets: map[model.MetricKind]model.MetricTarget{
					model.MetricCPA: {Target: dec("16"), Forecast: dec("16.5")},
				},
			},
		},
		Campaigns: []model.Campaign{
			{ID: "TH-1", Name: "One", Platform: model.PlatformLazada, Country: model.Thailand, Status: model.StatusPaused,
				Start: day(1, 1), End: day(3, 1), Budget: dec("500"), Spent: dec("123.45"), Conversions: 7, CPA: dec("17.64"), ROAS: dec("2.1")},
			{ID: "TH-2", Name: "Two", Platform: model.PlatformShopee, Country: model.Thailand, Status: model.StatusActive,
				Start: day(2, 1), End: day(4, 1), Budget: dec("800"), Spent: dec("0")},
		},
		Budget:   []model.BudgetLine{{Channel: "Affiliate", Allocated: dec("50000"), Spent: dec("40000")}},
		Regions:  []model.RegionStats{{Country: model.Singapore, Users: 28000, Revenue: dec("520000"), Growth: dec("12")}},
		Channels: []model.ChannelStats{{Name: "Paid Search", Users: 15000, Revenue: dec("280000"), ConversionRate: dec("3.2"), CPA: dec("32.45")}},

		Conversions: []model.ConversionSample{
			{Line: "Home Products", Period: day(1, 1), Rate: dec("4.2")},
			{Line: "Home Products", Period: day(2, 1), Rate: dec("4.5")},
		},
		Cart: model.CartStats{
			AbandonmentRate: dec("68.5"),
			RecoveryRate:    dec("25.3"),
			Reasons:         []model.AbandonReason{{Reason: "High Price", Share: dec("35")}},
		},
		Products:    []model.ProductStats{{Name: "Total Security", ConversionRate: dec("5.2"), AOV: dec("129.99"), SalesShare: dec("40")}},
		Categories:  []model.CategoryStats{{Name: "Enterprise", Revenue: dec("1450000"), Growth: dec("-1.5"), MarketShare: dec("29.4")}},
		Licenses:    []model.LicenseStats{{Tier: "Personal", RenewalRate: dec("78.5"), DaysToRenew: 15, Share: dec("45")}},
		Competitors: []model.CompetitorStats{{Name: "Competitor A", MarketShare: dec("28.3"), PriceIndex: dec("95"), Satisfaction: dec("4.2")}},
		Partners:    []model.PartnerStats{{Name: "Partner C", Revenue: dec("320000"), Growth: dec("18.5"), Performance: dec("95")}},
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	c := openTestCache(t)
	path := "/data/markets.toml"

	require.NoError(t, c.SaveDataset(path, "rev-1", sampleDataset(), FileInfo{MtimeNs: 42, SizeBytes: 1024}))

	ds, rev, err := c.LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, "rev-1", rev)

	th, ok := ds.Country(model.Thailand)
	require.True(t, ok)
	require.Len(t, th.Historical, 2)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), th.Historical[0].Period)
	assert.True(t, th.Historical[0].Revenue.Equal(dec("1000.25")), "revenue %s", th.Historical[0].Revenue)
	assert.True(t, th.Historical[1].CPA.Equal(dec("19.7")))
	assert.Equal(t, int64(900), th.Historical[0].TotalActiveUsers)
	assert.Equal(t, int64(50), th.Historical[1].SubscribedUsers)
	assert.True(t, th.Targets[model.MetricCPA].Forecast.Equal(dec("16.5")))

	require.Len(t, ds.Campaigns, 2)
	assert.Equal(t, "TH-1", ds.Campaigns[0].ID)
	assert.Equal(t, model.StatusPaused, ds.Campaigns[0].Status)
	assert.True(t, ds.Campaigns[0].Spent.Equal(dec("123.45")))
	assert.Equal(t, int64(7), ds.Campaigns[0].Conversions)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), ds.Campaigns[0].End)

	require.Len(t, ds.Budget, 1)
	assert.True(t, ds.Budget[0].Remaining().Equal(dec("10000")))
	require.Len(t, ds.Regions, 1)
	assert.Equal(t, model.Singapore, ds.Regions[0].Country)
	require.Len(t, ds.Channels, 1)
	assert.True(t, ds.Channels[0].CPA.Equal(dec("32.45")))

	require.Len(t, ds.Conversions, 2)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ds.Conversions[1].Period)
	assert.True(t, ds.Conversions[1].Rate.Equal(dec("4.5")))
	assert.True(t, ds.Cart.RecoveryRate.Equal(dec("25.3")))
	require.Len(t, ds.Cart.Reasons, 1)
	assert.Equal(t, "High Price", ds.Cart.Reasons[0].Reason)
	require.Len(t, ds.Products, 1)
	assert.True(t, ds.Products[0].AOV.Equal(dec("129.99")))
	require.Len(t, ds.Categories, 1)
	assert.True(t, ds.Categories[0].Growth.Equal(dec("-1.5")))
	require.Len(t, ds.Licenses, 1)
	assert.Equal(t, int64(15), ds.Licenses[0].DaysToRenew)
	require.Len(t, ds.Competitors, 1)
	assert.True(t, ds.Competitors[0].Satisfaction.Equal(dec("4.2")))
	require.Len(t, ds.Partners, 1)
	assert.True(t, ds.Partners[0].Performance.Equal(dec("95")))

	fi, ok, err := c.GetTrackedFile(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, FileInfo{MtimeNs: 42, SizeBytes: 1024}, fi)
}

func TestSaveDatasetReplaces(t *testing.T) {
	c := openTestCache(t)
	path := "/data/markets.toml"

	require.NoError(t, c.SaveDataset(path, "rev-1", sampleDataset(), FileInfo{MtimeNs: 1, SizeBytes: 1}))

	smaller := sampleDataset()
	smaller.Campaigns = smaller.Campaigns[:1]
	require.NoError(t, c.SaveDataset(path, "rev-2", smaller, FileInfo{MtimeNs: 2, SizeBytes: 2}))

	ds, rev, err := c.LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, "rev-2", rev)
	assert.Len(t, ds.Campaigns, 1)

	n, err := c.DatasetCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadDatasetNotCached(t *testing.T) {
	c := openTestCache(t)
	_, _, err := c.LoadDataset("/nope.toml")
	assert.True(t, errors.Is(err, ErrNotCached))

	_, ok, err := c.GetTrackedFile("/nope.toml")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteDataset(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.SaveDataset("/a.toml", "r", sampleDataset(), FileInfo{}))
	require.NoError(t, c.SaveDataset("/b.toml", "r", sampleDataset(), FileInfo{}))

	require.NoError(t, c.DeleteDataset("/a.toml"))

	n, err := c.DatasetCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err := c.GetTrackedFile("/a.toml")
	require.NoError(t, err)
	assert.False(t, ok)

	ds, _, err := c.LoadDataset("/b.toml")
	require.NoError(t, err)
	assert.Len(t, ds.Campaigns, 2)
}

func TestSaveDatasetWithoutProducts(t *testing.T) {
	c := openTestCache(t)
	ds := sampleDataset()
	ds.Conversions, ds.Cart, ds.Products = nil, model.CartStats{}, nil
	ds.Categories, ds.Licenses, ds.Competitors, ds.Partners = nil, nil, nil, nil
	require.NoError(t, c.SaveDataset("/p.toml", "r", ds, FileInfo{}))

	got, _, err := c.LoadDataset("/p.toml")
	require.NoError(t, err)
	assert.Empty(t, got.Conversions)
	assert.Empty(t, got.Cart.Reasons)
	assert.True(t, got.Cart.AbandonmentRate.IsZero())
	assert.Empty(t, got.Partners)
}

func TestOpenForgetsOlderSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, c.SaveDataset("/a.toml", "r", sampleDataset(), FileInfo{MtimeNs: 1}))

	_, ok, err := c.GetTrackedFile("/a.toml")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, ok, err = c.GetTrackedFile("/a.toml")
	require.NoError(t, err)
	assert.False(t, ok, "entries from an older schema must be re-decoded")

	// A current cache keeps its entries across reopen.
	require.NoError(t, c.SaveDataset("/a.toml", "r", sampleDataset(), FileInfo{MtimeNs: 1}))
	require.NoError(t, c.Close())
	c, err = Open(dbPath)
	require.NoError(t, err)
	_, ok, err = c.GetTrackedFile("/a.toml")
	require.NoError(t, err)
	assert.True(t, ok)
}
