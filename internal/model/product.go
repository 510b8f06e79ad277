package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionSample is one month's checkout conversion rate for a product line.
type ConversionSample struct {
	Line   string          `json:"line"`
	Period time.Time       `json:"period"`
	Rate   decimal.Decimal `json:"rate_pct"`
}

// AbandonReason is one cause of cart abandonment and its share of abandoned carts.
type AbandonReason struct {
	Reason string          `json:"reason"`
	Share  decimal.Decimal `json:"share_pct"`
}

// Record exposes the summable fields.
func (r AbandonReason) Record() Record {
	return Record{"share": r.Share}
}

// CartStats holds storefront cart abandonment figures.
type CartStats struct {
	AbandonmentRate decimal.Decimal `json:"abandonment_pct"`
	RecoveryRate    decimal.Decimal `json:"recovery_pct"`
	Reasons         []AbandonReason `json:"reasons"`
}

// ProductStats is storefront performance for one product.
type ProductStats struct {
	Name           string          `json:"name"`
	ConversionRate decimal.Decimal `json:"conversion_pct"`
	AOV            decimal.Decimal `json:"aov"`
	SalesShare     decimal.Decimal `json:"sales_share_pct"`
}

// Record exposes the summable fields. weighted_aov sums AOV times share so
// that a blended order value can be recovered from the totals.
func (p ProductStats) Record() Record {
	return Record{
		"sales_share":  p.SalesShare,
		"weighted_aov": p.AOV.Mul(p.SalesShare),
	}
}

// CategoryStats is revenue and market position for one product category.
type CategoryStats struct {
	Name        string          `json:"name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Growth      decimal.Decimal `json:"growth_pct"`
	MarketShare decimal.Decimal `json:"market_share_pct"`
}

// Record exposes the summable fields. Growth is a rate and is not summed.
func (c CategoryStats) Record() Record {
	return Record{"revenue": c.Revenue, "market_share": c.MarketShare}
}

// LicenseStats holds renewal behaviour for one license tier.
type LicenseStats struct {
	Tier        string          `json:"tier"`
	RenewalRate decimal.Decimal `json:"renewal_pct"`
	DaysToRenew int64           `json:"days_to_renew"`
	Share       decimal.Decimal `json:"share_pct"`
}

// Record exposes the summable fields.
func (l LicenseStats) Record() Record {
	return Record{"share": l.Share}
}

// CompetitorStats positions one vendor in the market.
type CompetitorStats struct {
	Name         string          `json:"name"`
	MarketShare  decimal.Decimal `json:"market_share_pct"`
	PriceIndex   decimal.Decimal `json:"price_index"`
	Satisfaction decimal.Decimal `json:"satisfaction"`
}

// Record exposes the summable fields.
func (c CompetitorStats) Record() Record {
	return Record{"market_share": c.MarketShare}
}

// PartnerStats is channel-partner revenue and performance.
type PartnerStats struct {
	Name        string          `json:"name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Growth      decimal.Decimal `json:"growth_pct"`
	Performance decimal.Decimal `json:"performance"`
}

// Record exposes the summable fields.
func (p PartnerStats) Record() Record {
	return Record{"revenue": p.Revenue}
}
