package pipeline

import (
	"sort"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

// CampaignFilter selects campaigns. A zero field matches everything.
type CampaignFilter struct {
	Platform model.Platform
	Country  model.CountryID
	Status   model.CampaignStatus
}

// IsZero reports whether the filter matches every campaign.
func (f CampaignFilter) IsZero() bool {
	return f == CampaignFilter{}
}

// Match reports whether c passes the filter.
func (f CampaignFilter) Match(c model.Campaign) bool {
	if f.Platform != model.PlatformAll && c.Platform != f.Platform {
		return false
	}
	if f.Country != model.CountryAll && c.Country != f.Country {
		return false
	}
	if f.Status != model.StatusAll && c.Status != f.Status {
		return false
	}
	return true
}

// FilterCampaigns returns the campaigns matching f, preserving order.
// The input slice is not modified.
func FilterCampaigns(campaigns []model.Campaign, f CampaignFilter) []model.Campaign {
	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// CampaignSummary is the totals row under a campaign table.
type CampaignSummary struct {
	Count       int             `json:"count"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Conversions int64           `json:"conversions"`
	SpentPct    decimal.Decimal `json:"spent_pct"`
	// CPA over the whole set, zero when there are no conversions.
	CPA decimal.Decimal `json:"cpa"`
}

// CampaignTotals reduces campaigns to their budget, spend and conversion totals.
func CampaignTotals(campaigns []model.Campaign) CampaignSummary {
	t := MustTotals(campaigns)
	s := CampaignSummary{
		Count:       t.Count,
		Budget:      t.Get("budget"),
		Spent:       t.Get("spent"),
		Conversions: t.Get("conversions").IntPart(),
	}
	s.SpentPct = Percent(s.Spent, s.Budget)
	if s.Conversions > 0 {
		s.CPA = s.Spent.Div(decimal.NewFromInt(s.Conversions)).Round(2)
	}
	return s
}

// BudgetSummary is the totals row under the budget allocation table.
type BudgetSummary struct {
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	SpentPct  decimal.Decimal `json:"spent_pct"`
}

// BudgetTotals reduces budget lines to allocation totals.
func BudgetTotals(lines []model.BudgetLine) BudgetSummary {
	t := MustTotals(lines)
	return BudgetSummary{
		Allocated: t.Get("allocated"),
		Spent:     t.Get("spent"),
		Remaining: t.Get("remaining"),
		SpentPct:  Share(t, "spent", "allocated"),
	}
}

// RegionSummary totals the regional table.
type RegionSummary struct {
	Users   int64
	Revenue decimal.Decimal
}

// RegionTotals reduces regional rows.
func RegionTotals(regions []model.RegionStats) RegionSummary {
	t := MustTotals(regions)
	return RegionSummary{Users: t.Get("users").IntPart(), Revenue: t.Get("revenue")}
}

// ChannelTotals reduces channel rows to users and revenue.
func ChannelTotals(channels []model.ChannelStats) RegionSummary {
	t := MustTotals(channels)
	return RegionSummary{Users: t.Get("users").IntPart(), Revenue: t.Get("revenue")}
}

// UserShare returns each channel's share of total users, in whole percent,
// keyed by channel name.
func UserShare(channels []model.ChannelStats) map[string]decimal.Decimal {
	total := ChannelTotals(channels)
	whole := decimal.NewFromInt(total.Users)
	out := make(map[string]decimal.Decimal, len(channels))
	for _, c := range channels {
		out[c.Name] = Percent(decimal.NewFromInt(c.Users), whole)
	}
	return out
}

// CampaignsByBudget returns a copy sorted by budget, largest first.
func CampaignsByBudget(campaigns []model.Campaign) []model.Campaign {
	out := append([]model.Campaign(nil), campaigns...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Budget.GreaterThan(out[j].Budget)
	})
	return out
}
