// Package dataset provides the shipped dashboard data and decodes dataset files.
package dataset

import (
	"time"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

type kpiRow struct {
	period            time.Time
	newUsers          int64
	revenue, cpa, ltv string
	share             string
	active, subscribed int64
}

func series(rows ...kpiRow) []model.TimeSeriesPoint {
	out := make([]model.TimeSeriesPoint, len(rows))
	for i, r := range rows {
		out[i] = model.TimeSeriesPoint{
			Period:            r.period,
			NewUsers:          r.newUsers,
			Revenue:           d(r.revenue),
			CPA:               d(r.cpa),
			LTV:               d(r.ltv),
			SubscriptionShare: d(r.share),
			TotalActiveUsers:  r.active,
			SubscribedUsers:   r.subscribed,
		}
	}
	return out
}

// targets takes target/forecast pairs in model.AllMetrics order.
func targets(pairs ...[2]string) map[model.MetricKind]model.MetricTarget {
	out := make(map[model.MetricKind]model.MetricTarget, len(pairs))
	for i, p := range pairs {
		out[model.AllMetrics[i]] = model.MetricTarget{Target: d(p[0]), Forecast: d(p[1])}
	}
	return out
}

// Builtin returns a fresh copy of the shipped dataset. Callers may modify it.
func Builtin() *model.Dataset {
	return &model.Dataset{
		Countries: map[model.CountryID]model.CountryData{
			model.Indonesia: {
				ID: model.Indonesia,
				Historical: series(
					kpiRow{day(2024, 3, 15), 28000, "840000", "20", "90", "0.45", 150000, 67500},
					kpiRow{day(2024, 6, 15), 32000, "1120000", "19", "95", "0.48", 180000, 86400},
					kpiRow{day(2024, 9, 15), 38000, "1520000", "18", "100", "0.52", 220000, 114400},
					kpiRow{day(2024, 12, 15), 45000, "2025000", "17", "105", "0.55", 275000, 151250},
					kpiRow{day(2025, 3, 18), 52000, "2600000", "16", "110", "0.58", 320000, 185600},
				),
				Targets: targets(
					[2]string{"60000", "58000"},
					[2]string{"3000000", "2800000"},
					[2]string{"15", "15.5"},
					[2]string{"120", "115"},
					[2]string{"0.65", "0.61"},
				),
				Journey: Journey(model.Indonesia),
			},
			model.Thailand: {
				ID: model.Thailand,
				Historical: series(
					kpiRow{day(2024, 3, 15), 22000, "660000", "23", "85", "0.40", 110000, 44000},
					kpiRow{day(2024, 6, 15), 26000, "910000", "21", "90", "0.43", 135000, 58050},
					kpiRow{day(2024, 9, 15), 31000, "1240000", "19", "95", "0.46", 165000, 75900},
					kpiRow{day(2024, 12, 15), 37000, "1665000", "18", "100", "0.49", 200000, 98000},
					kpiRow{day(2025, 3, 18), 42000, "2100000", "17", "105", "0.52", 240000, 124800},
				),
				Targets: targets(
					[2]string{"50000", "46000"},
					[2]string{"2500000", "2300000"},
					[2]string{"16", "16.5"},
					[2]string{"115", "110"},
					[2]string{"0.60", "0.55"},
				),
				Journey: Journey(model.Thailand),
			},
			model.Malaysia: {
				ID: model.Malaysia,
				Historical: series(
					kpiRow{day(2024, 3, 15), 19000, "570000", "21", "87", "0.42", 95000, 39900},
					kpiRow{day(2024, 6, 15), 23000, "805000", "19", "92", "0.45", 115000, 51750},
					kpiRow{day(2024, 9, 15), 27000, "1080000", "18", "97", "0.48", 140000, 67200},
					kpiRow{day(2024, 12, 15), 32000, "1440000", "17", "102", "0.51", 170000, 86700},
					kpiRow{day(2025, 3, 18), 36000, "1800000", "16", "107", "0.54", 200000, 108000},
				),
				Targets: targets(
					[2]string{"42000", "39000"},
					[2]string{"2100000", "1950000"},
					[2]string{"15", "15.5"},
					[2]string{"115", "112"},
					[2]string{"0.60", "0.57"},
				),
				Journey: Journey(model.Malaysia),
			},
		},
		Campaigns: Campaigns(),
		Budget:    Budget(),
		Regions:   Regions(),
		Channels:  Channels(),

		Conversions: Conversions(),
		Cart:        Cart(),
		Products:    Products(),
		Categories:  Categories(),
		Licenses:    Licenses(),
		Competitors: Competitors(),
		Partners:    Partners(),
	}
}

// Campaigns returns the shipped campaign list.
func Campaigns() []model.Campaign {
	c := func(id, name string, p model.Platform, country model.CountryID, st model.CampaignStatus,
		start, end time.Time, budget, spent string, conv int64, cpa, roas string) model.Campaign {
		return model.Campaign{
			ID: id, Name: name, Platform: p, Country: country, Status: st,
			Start: start, End: end,
			Budget: d(budget), Spent: d(spent), Conversions: conv,
			CPA: d(cpa), ROAS: d(roas),
		}
	}
	return []model.Campaign{
		c("ID-001", "Ramadan Security Bundle", model.PlatformTokopedia, model.Indonesia, model.StatusActive,
			day(2025, 3, 1), day(2025, 4, 15), "150000", "85000", 4200, "20.24", "3.8"),
		c("ID-002", "Business Protection Suite", model.PlatformShopee, model.Indonesia, model.StatusActive,
			day(2025, 2, 15), day(2025, 5, 15), "200000", "120000", 5800, "20.69", "3.5"),
		c("ID-003", "Mobile Security Campaign", model.PlatformLazada, model.Indonesia, model.StatusScheduled,
			day(2025, 4, 1), day(2025, 6, 30), "180000", "0", 0, "0", "0"),
		c("TH-001", "Songkran Security Special", model.PlatformShopee, model.Thailand, model.StatusActive,
			day(2025, 3, 10), day(2025, 4, 20), "120000", "45000", 2200, "20.45", "3.6"),
		c("TH-002", "SME Cybersecurity Bundle", model.PlatformLazada, model.Thailand, model.StatusScheduled,
			day(2025, 4, 1), day(2025, 6, 30), "150000", "0", 0, "0", "0"),
		c("MY-001", "Raya Protection Package", model.PlatformShopee, model.Malaysia, model.StatusActive,
			day(2025, 3, 1), day(2025, 4, 15), "100000", "55000", 2800, "19.64", "3.9"),
		c("MY-002", "Digital Security Suite", model.PlatformLazada, model.Malaysia, model.StatusCompleted,
			day(2025, 1, 15), day(2025, 3, 15), "120000", "118000", 5900, "20.00", "3.7"),
	}
}

// Budget returns the shipped channel budget allocation.
func Budget() []model.BudgetLine {
	b := func(ch, allocated, spent string) model.BudgetLine {
		return model.BudgetLine{Channel: ch, Allocated: d(allocated), Spent: d(spent)}
	}
	return []model.BudgetLine{
		b("Paid Search", "350000", "280000"),
		b("Display Ads", "200000", "150000"),
		b("Social Media", "150000", "120000"),
		b("Email Marketing", "100000", "75000"),
		b("Affiliate", "50000", "40000"),
	}
}

// Regions returns the shipped regional performance figures.
func Regions() []model.RegionStats {
	r := func(c model.CountryID, users int64, revenue, growth string) model.RegionStats {
		return model.RegionStats{Country: c, Users: users, Revenue: d(revenue), Growth: d(growth)}
	}
	return []model.RegionStats{
		r(model.Indonesia, 25000, "450000", "15"),
		r(model.Thailand, 18000, "320000", "20"),
		r(model.Malaysia, 22000, "380000", "25"),
		r(model.Philippines, 15000, "280000", "30"),
		r(model.Singapore, 28000, "520000", "12"),
	}
}

// Channels returns the shipped channel acquisition figures.
func Channels() []model.ChannelStats {
	c := func(name string, users int64, revenue, conv, cpa string) model.ChannelStats {
		return model.ChannelStats{Name: name, Users: users, Revenue: d(revenue), ConversionRate: d(conv), CPA: d(cpa)}
	}
	return []model.ChannelStats{
		c("Paid Search", 15000, "280000", "3.2", "32.45"),
		c("Display Ads", 8000, "150000", "2.8", "35.78"),
		c("Social Media", 12000, "220000", "2.9", "38.92"),
		c("Email Marketing", 5000, "95000", "3.5", "36.45"),
		c("Affiliate", 3000, "55000", "3.1", "34.89"),
	}
}
