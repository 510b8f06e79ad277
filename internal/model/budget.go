package model

import "github.com/shopspring/decimal"

// BudgetLine is the allocation and spend for one marketing channel.
type BudgetLine struct {
	Channel   string          `json:"channel"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
}

// Remaining returns allocated minus spent.
func (b BudgetLine) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Spent)
}

// Record exposes the summable fields.
func (b BudgetLine) Record() Record {
	return Record{
		"allocated": b.Allocated,
		"spent":     b.Spent,
		"remaining": b.Remaining(),
	}
}

// RegionStats holds headline numbers for one market.
type RegionStats struct {
	Country CountryID       `json:"country"`
	Users   int64           `json:"users"`
	Revenue decimal.Decimal `json:"revenue"`
	Growth  decimal.Decimal `json:"growth_pct"`
}

// Record exposes the summable fields. Growth is a rate and is not summed.
func (r RegionStats) Record() Record {
	return Record{
		"users":   decimal.NewFromInt(r.Users),
		"revenue": r.Revenue,
	}
}

// ChannelStats holds acquisition numbers for one marketing channel.
type ChannelStats struct {
	Name           string          `json:"name"`
	Users          int64           `json:"users"`
	Revenue        decimal.Decimal `json:"revenue"`
	ConversionRate decimal.Decimal `json:"conversion_pct"`
	CPA            decimal.Decimal `json:"cpa"`
}

// Record exposes the summable fields.
func (c ChannelStats) Record() Record {
	return Record{
		"users":   decimal.NewFromInt(c.Users),
		"revenue": c.Revenue,
	}
}
